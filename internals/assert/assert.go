package assert

import "fmt"

// Assert panics with msg when condition holds. Only used while wiring the
// server at startup, where there is nothing sensible to recover to.
func Assert(condition bool, msg string, other ...any) {
	if condition {
		if len(other) > 0 {
			panic(fmt.Sprint(append([]any{msg, " "}, other...)...))
		}
		panic(msg)
	}
}

func AssertNil(value any, msg string, other ...any) {
	if err, ok := value.(error); ok && err != nil {
		Assert(true, msg+": "+err.Error(), other...)
		return
	}
	Assert(value != nil, msg, other...)
}

package schemas

type EventKind string

const (
	EventTaskUpdate       EventKind = "task_update"
	EventTaskStatusUpdate EventKind = "task_status_update"
)

// Event is the push-channel envelope.
type Event struct {
	Kind EventKind `json:"event"`
	Data Task      `json:"data"`
}

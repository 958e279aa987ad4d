package timeouts

import "time"

const (
	Probe          = 300 * time.Millisecond
	Shutdown       = 2 * time.Second
	ReadHeader     = 5 * time.Second
	ClientDefault  = 5 * time.Second
	UpstreamCall   = 10 * time.Second
	OAuthState     = 10 * time.Minute
	SessionDefault = 30 * time.Minute
	PushWrite      = 5 * time.Second
)

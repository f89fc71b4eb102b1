package config

import "time"

const (
	DefaultHTTPPort        = "8000"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultTrackInterval   = time.Minute
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 0
	DefaultPGIdleTime      = 2 * time.Minute
	DefaultPingTimeout     = 5 * time.Second
)

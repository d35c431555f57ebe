package server

import "time"

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	// Covers the injected mock latency on top of handler time.
	writeTimeout = 15 * time.Second
	idleTimeout  = 60 * time.Second

	loopbackAddr = "127.0.0.1:0"
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

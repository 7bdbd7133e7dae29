package server

import "time"

const (
	readTimeout = 10 * time.Second
	// writeTimeout covers a full page render including the upstream fetch.
	writeTimeout = 30 * time.Second
	idleTimeout  = 60 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second

package upstream

import "time"

const (
	// Name labels upstream metrics and logs.
	Name = "matches-api"

	defaultTimeout      = 4 * time.Second
	defaultMaxRetries   = 2
	defaultInitialDelay = 100 * time.Millisecond
	maxErrorBody        = 512
	maxMatchBody        = 1 << 20
	matchesPath         = "/matches/"
)

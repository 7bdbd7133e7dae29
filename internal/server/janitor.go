package server

import (
	"context"

	"github.com/preston-bernstein/footy-guide-ssr/internal/cache"
)

// Janitor defines the minimal background sweeper behavior needed by the server.
type Janitor interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() cache.JanitorStatus
}

package render

import (
	"context"
	"encoding/json"
)

var emptyState = json.RawMessage(`{"mutations":[],"queries":[]}`)

// Shell renders nothing and leaves all work to the client bundle. It serves
// when no render sidecar is configured.
type Shell struct{}

// Render implements Renderer.
func (Shell) Render(ctx context.Context, _ string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	return Result{State: emptyState}, nil
}

package render

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrRenderer marks failures reported by, or while reaching, the application renderer.
var ErrRenderer = errors.New("render: application renderer failed")

// Renderer produces the application's markup and hydration state for a URL.
type Renderer interface {
	Render(ctx context.Context, url string) (Result, error)
}

// Result is one application render. State is the dehydrated query cache and
// is embedded in the page verbatim.
type Result struct {
	HTML  string          `json:"html"`
	State json.RawMessage `json:"state"`
}

// Func adapts a plain function to Renderer.
type Func func(ctx context.Context, url string) (Result, error)

// Render implements Renderer.
func (f Func) Render(ctx context.Context, url string) (Result, error) {
	return f(ctx, url)
}

package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/footy-guide-ssr/internal/metrics"
)

const (
	defaultRemoteTimeout = 10 * time.Second
	maxErrorBody         = 512
)

// RemoteConfig controls how the server reaches the render sidecar.
type RemoteConfig struct {
	URL        string
	Timeout    time.Duration
	HTTPClient *http.Client
	Recorder   *metrics.Recorder
}

// Remote asks an out-of-process renderer for markup. It POSTs {"url": ...}
// and expects {"html": ..., "state": ...} back.
type Remote struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	recorder   *metrics.Recorder
}

type remoteRequest struct {
	URL string `json:"url"`
}

// NewRemote constructs a Remote renderer.
func NewRemote(cfg RemoteConfig) *Remote {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Remote{
		endpoint:   strings.TrimSpace(cfg.URL),
		timeout:    timeout,
		httpClient: client,
		recorder:   cfg.Recorder,
	}
}

// Render implements Renderer.
func (r *Remote) Render(ctx context.Context, url string) (result Result, err error) {
	start := time.Now()
	defer func() {
		r.recorder.RecordRender(time.Since(start), err)
	}()

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := json.Marshal(remoteRequest{URL: url})
	if err != nil {
		return Result{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("%w: build request: %w", ErrRenderer, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRenderer, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, fmt.Errorf("%w: status %d: %s", ErrRenderer, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("%w: decode response: %w", ErrRenderer, err)
	}
	if len(bytes.TrimSpace(result.State)) == 0 {
		result.State = emptyState
	}
	return result, nil
}

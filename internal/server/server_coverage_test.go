package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/preston-bernstein/footy-guide-ssr/internal/config"
	"github.com/preston-bernstein/footy-guide-ssr/internal/metrics"
	"github.com/preston-bernstein/footy-guide-ssr/internal/render"
)

// metricsSetupSuccess allows us to force a handler to test buildMetrics success path.
func metricsSetupSuccess(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
	rec := metrics.NewRecorder()
	return rec, http.NewServeMux(), func(context.Context) error { return nil }, nil
}

func TestBuildMetricsSuccessPathSetsServerAndShutdown(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()
	metricsSetup = metricsSetupSuccess

	rec, srv, stop := buildMetrics(config.Config{
		Metrics: config.MetricsConfig{
			Enabled: true,
			Port:    "9999",
		},
	}, nil, nil)

	if rec == nil || srv == nil || stop == nil {
		t.Fatalf("expected recorder, server, and shutdown to be set on success")
	}
	if srv.Addr() != ":9999" {
		t.Fatalf("expected metrics server on :9999, got %s", srv.Addr())
	}
}

func TestBuildRendererSelectsImplementation(t *testing.T) {
	if _, ok := buildRenderer(config.Config{}, nil, nil).(render.Shell); !ok {
		t.Fatalf("expected shell renderer without a url")
	}
	cfg := config.Config{Render: config.RenderConfig{URL: "http://renderer:3001/render"}}
	if _, ok := buildRenderer(cfg, nil, nil).(*render.Remote); !ok {
		t.Fatalf("expected remote renderer with a url")
	}
}

func TestBuildFetcherDisabledWithoutBaseURL(t *testing.T) {
	if buildFetcher(config.Config{}, nil, nil).Enabled() {
		t.Fatalf("expected fetcher disabled without base url")
	}
	cfg := config.Config{Upstream: config.UpstreamConfig{BaseURL: "https://api.example"}}
	if !buildFetcher(cfg, nil, nil).Enabled() {
		t.Fatalf("expected fetcher enabled with base url")
	}
}

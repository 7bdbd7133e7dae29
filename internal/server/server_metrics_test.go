package server

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/preston-bernstein/footy-guide-ssr/internal/config"
	"github.com/preston-bernstein/footy-guide-ssr/internal/metrics"
	"github.com/preston-bernstein/footy-guide-ssr/internal/testutil"
)

func TestNewServerWithMetricsHandlesSetupFailure(t *testing.T) {
	origSetup := metricsSetup
	defer func() { metricsSetup = origSetup }()

	metricsSetup = func(ctx context.Context, cfg metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}

	cfg := testConfig(t)
	cfg.Metrics = config.MetricsConfig{Enabled: true}

	srv, err := newServerWithMetrics(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics == nil {
		t.Fatalf("expected fallback metrics recorder even on setup failure")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server after setup failure")
	}
}

func TestNewServerWithMetricsDisabledSkipsSetup(t *testing.T) {
	cfg := testConfig(t)
	cfg.Metrics = config.MetricsConfig{Enabled: false}

	srv, err := newServerWithMetrics(context.Background(), cfg, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics == nil {
		t.Fatalf("expected recorder to be set even when metrics disabled")
	}
	if srv.metricsServer != nil {
		t.Fatalf("expected no metrics server when disabled")
	}
}

func TestNewServerWithMetricsUsesInjectedRecorder(t *testing.T) {
	rec, shutdown := testutil.NewRecorderWithShutdown()
	cfg := testConfig(t)
	cfg.Metrics = config.MetricsConfig{Enabled: true}

	srv, err := newServerWithMetrics(context.Background(), cfg, nil, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if srv.metrics != rec {
		t.Fatalf("expected injected recorder to be used")
	}
	if srv.metricsStop != nil {
		t.Fatalf("expected no telemetry shutdown for an injected recorder")
	}
	_ = shutdown
}

func TestServerRecordsCacheLookups(t *testing.T) {
	rec := metrics.NewRecorder()
	stub := testutil.NewUpstream(t, map[string]string{"42": testutil.ArsenalChelseaJSON})
	cfg := testConfig(t)
	cfg.Upstream.BaseURL = stub.URL

	srv, err := newServerWithMetrics(context.Background(), cfg, nil, rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 2; i++ {
		rr := testutil.Serve(srv.Handler(), http.MethodGet, "/og/match/42.svg", nil)
		testutil.AssertStatus(t, rr, http.StatusOK)
	}
	if rec.CacheMisses("image") != 1 || rec.CacheHits("image") != 1 {
		t.Fatalf("expected one miss and one hit, got misses=%d hits=%d", rec.CacheMisses("image"), rec.CacheHits("image"))
	}
	if rec.UpstreamCalls("matches-api") != 1 {
		t.Fatalf("expected one upstream call, got %d", rec.UpstreamCalls("matches-api"))
	}
}

package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/footy-guide-ssr/internal/cache"
	"github.com/preston-bernstein/footy-guide-ssr/internal/config"
	httpserver "github.com/preston-bernstein/footy-guide-ssr/internal/http"
	"github.com/preston-bernstein/footy-guide-ssr/internal/http/handlers"
	"github.com/preston-bernstein/footy-guide-ssr/internal/logging"
	"github.com/preston-bernstein/footy-guide-ssr/internal/metrics"
	"github.com/preston-bernstein/footy-guide-ssr/internal/page"
	"github.com/preston-bernstein/footy-guide-ssr/internal/render"
	"github.com/preston-bernstein/footy-guide-ssr/internal/social"
	"github.com/preston-bernstein/footy-guide-ssr/internal/upstream"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg            config.Config
	logger         *slog.Logger
	metrics        *metrics.Recorder
	metaCache      *cache.Store
	imageCache     *cache.Store
	httpServer     httpServer
	metricsServer  httpServer
	janitor        Janitor
	metricsStop    func(context.Context) error
	templatesClose func() error
}

// New constructs a server from configuration. The page template is read
// before New returns; in development it keeps watching until ctx ends.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	templates, closeTemplates, err := buildTemplates(ctx, cfg, logger)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, err
	}

	metaCache, imageCache := buildCaches(cfg, recorder)
	janitor := cache.NewJanitor(cfg.Cache.SweepInterval, logger, metaCache, imageCache)
	httpSrv := buildHTTPServer(cfg, handlers.Deps{
		Site:        social.Site{Name: cfg.Site.Name, TwitterHandle: cfg.Site.TwitterHandle},
		MetaCache:   metaCache,
		ImageCache:  imageCache,
		Fetcher:     buildFetcher(cfg, recorder, logger),
		Renderer:    buildRenderer(cfg, recorder, logger),
		Templates:   templates,
		TrustProxy:  cfg.TrustProxy,
		Development: !cfg.IsProduction(),
		Logger:      logger,
	}, logger, recorder)

	return &Server{
		cfg:            cfg,
		logger:         logger,
		metrics:        recorder,
		metaCache:      metaCache,
		imageCache:     imageCache,
		httpServer:     httpSrv,
		metricsServer:  metricsSrv,
		janitor:        janitor,
		metricsStop:    metricsShutdown,
		templatesClose: closeTemplates,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, httpSrv httpServer, janitor Janitor) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		httpServer: httpSrv,
		janitor:    janitor,
	}
}

func buildCaches(cfg config.Config, recorder *metrics.Recorder) (*cache.Store, *cache.Store) {
	meta := cache.New(cache.Config{
		Name:     "meta",
		TTL:      cfg.Cache.MetaTTL,
		Capacity: cfg.Cache.Capacity,
		Observer: recorder,
	})
	images := cache.New(cache.Config{
		Name:     "image",
		TTL:      cfg.Cache.ImageTTL,
		Capacity: cfg.Cache.Capacity,
		Observer: recorder,
	})
	return meta, images
}

func buildFetcher(cfg config.Config, recorder *metrics.Recorder, logger *slog.Logger) *upstream.Client {
	client := upstream.NewClient(upstream.Config{
		BaseURL:    cfg.Upstream.BaseURL,
		APIKey:     cfg.Upstream.APIKey,
		Timeout:    cfg.Upstream.Timeout,
		MaxRetries: -1,
		Recorder:   recorder,
		Logger:     logger,
	})
	if !client.Enabled() {
		logging.Warn(logger, "API_BASE_URL not set, match metadata comes from hydration state only")
	}
	return client
}

func buildRenderer(cfg config.Config, recorder *metrics.Recorder, logger *slog.Logger) render.Renderer {
	if cfg.Render.URL == "" {
		logging.Info(logger, "no renderer configured, serving the client shell")
		return render.Shell{}
	}
	logging.Info(logger, "using remote renderer", slog.String(logging.FieldURL, cfg.Render.URL))
	return render.NewRemote(render.RemoteConfig{
		URL:      cfg.Render.URL,
		Timeout:  cfg.Render.Timeout,
		Recorder: recorder,
	})
}

func buildTemplates(ctx context.Context, cfg config.Config, logger *slog.Logger) (page.Source, func() error, error) {
	if cfg.IsProduction() {
		src, err := page.LoadStatic(cfg.TemplatePath)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	}
	src, err := page.Watch(ctx, cfg.TemplatePath, logger)
	if err != nil {
		return nil, nil, err
	}
	return src, src.Close, nil
}

func buildHTTPServer(cfg config.Config, deps handlers.Deps, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := handlers.NewHandler(deps)
	var admin *handlers.AdminHandler
	// Only mount admin purge endpoint if token is set.
	if cfg.AdminToken != "" {
		admin = handlers.NewAdminHandler(cfg.AdminToken, logger, deps.MetaCache, deps.ImageCache)
	}
	router := httpserver.NewRouter(handler, admin)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpserver.Wrap(router, logger, recorder),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the janitor and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.janitor != nil {
		s.janitor.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting",
			slog.String("addr", s.httpServer.Addr()),
			slog.String("mode", string(s.cfg.Mode)),
		)
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if s.janitor != nil {
		if err := s.janitor.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop cache janitor", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.templatesClose != nil {
		if err := s.templatesClose(); err != nil && s.logger != nil {
			s.logger.Warn("template watcher close failed", "error", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:    ":" + recCfg.Port,
				Handler: handler,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

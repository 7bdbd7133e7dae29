package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/footy-guide-ssr/internal/http/handlers"
	"github.com/preston-bernstein/footy-guide-ssr/internal/http/middleware"
	"github.com/preston-bernstein/footy-guide-ssr/internal/metrics"
)

// NewRouter registers HTTP routes on a ServeMux. admin may be nil, in which
// case the admin routes fall through to the page handler like any other path.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/healthz", handler.Health)
	mux.HandleFunc("/og/", handler.Image)
	// Without an exact route ServeMux would redirect /og to the subtree.
	mux.HandleFunc("/og", handler.Page)
	if admin != nil {
		mux.HandleFunc("/admin/cache/purge", admin.PurgeCaches)
	}
	mux.HandleFunc("/", handler.Page)
	return mux
}

// Wrap applies the standard middleware chain: compression innermost so the
// logger sees the final status.
func Wrap(next nethttp.Handler, logger *slog.Logger, recorder *metrics.Recorder) nethttp.Handler {
	return middleware.LoggingMiddleware(logger, recorder, middleware.Compress(next))
}

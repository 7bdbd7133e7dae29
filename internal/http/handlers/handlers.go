package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/preston-bernstein/footy-guide-ssr/internal/cache"
	"github.com/preston-bernstein/footy-guide-ssr/internal/domain/matches"
	"github.com/preston-bernstein/footy-guide-ssr/internal/page"
	"github.com/preston-bernstein/footy-guide-ssr/internal/render"
	"github.com/preston-bernstein/footy-guide-ssr/internal/social"
)

const (
	matchKind   = "match"
	matchPrefix = "/matches/"
	imagePrefix = "/og/"
	imageSuffix = ".svg"

	imageCacheControl = "public, max-age=300"
	htmlContentType   = "text/html; charset=utf-8"
	notFoundBody      = "Not Found"
	serverErrorBody   = "Internal Server Error"
)

// MatchFetcher loads a match record; false means the record is unavailable.
type MatchFetcher interface {
	FetchMatch(ctx context.Context, id string) (matches.Match, bool)
}

// Deps collects what the page and image flows need.
type Deps struct {
	Site       social.Site
	MetaCache  *cache.Store
	ImageCache *cache.Store
	Fetcher    MatchFetcher
	Renderer   render.Renderer
	Templates  page.Source
	TrustProxy bool
	// Development adds the full error chain to failure logs.
	Development bool
	Logger      *slog.Logger
	Now         func() time.Time
}

// Handler serves server-rendered pages, preview images and health.
type Handler struct {
	site        social.Site
	meta        *cache.Store
	images      *cache.Store
	fetcher     MatchFetcher
	renderer    render.Renderer
	templates   page.Source
	trustProxy  bool
	development bool
	logger      *slog.Logger
	now         func() time.Time
}

// NewHandler constructs a Handler with defaults for anything left unset.
func NewHandler(deps Deps) *Handler {
	h := &Handler{
		site:        deps.Site,
		meta:        deps.MetaCache,
		images:      deps.ImageCache,
		fetcher:     deps.Fetcher,
		renderer:    deps.Renderer,
		templates:   deps.Templates,
		trustProxy:  deps.TrustProxy,
		development: deps.Development,
		logger:      deps.Logger,
		now:         deps.Now,
	}
	if h.meta == nil {
		h.meta = cache.New(cache.Config{Name: "meta"})
	}
	if h.images == nil {
		h.images = cache.New(cache.Config{Name: "image"})
	}
	if h.renderer == nil {
		h.renderer = render.Shell{}
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.site.NoLocalImages = !fetcherEnabled(h.fetcher)
	return h
}

// fetcherEnabled reports whether preview cards can be produced. A fetcher
// that exposes Enabled decides for itself.
func fetcherEnabled(f MatchFetcher) bool {
	if f == nil {
		return false
	}
	if e, ok := f.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// fetchMatch guards against an unconfigured fetcher.
func (h *Handler) fetchMatch(ctx context.Context, id string) (matches.Match, bool) {
	if h.fetcher == nil {
		return matches.Match{}, false
	}
	return h.fetcher.FetchMatch(ctx, id)
}

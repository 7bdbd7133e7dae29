package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/preston-bernstein/footy-guide-ssr/internal/cache"
	"github.com/preston-bernstein/footy-guide-ssr/internal/domain/matches"
	"github.com/preston-bernstein/footy-guide-ssr/internal/http/requestutil"
	"github.com/preston-bernstein/footy-guide-ssr/internal/preview"
)

// Image serves /og/<kind>/<id>.svg preview cards. Paths under /og/ that do
// not have that shape are pages.
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	kind, id, ok := parseImagePath(r.URL.Path)
	if !ok {
		h.Page(w, r)
		return
	}
	if kind != matchKind || !matches.IsNumericID(id) {
		writeText(w, http.StatusNotFound, notFoundBody)
		return
	}

	origin := requestutil.Origin(r, h.trustProxy)
	svg, ok := h.images.Load(r.Context(), cache.Key(origin, id), h.images.TTL(), func(ctx context.Context) (string, bool) {
		match, ok := h.fetchMatch(ctx, id)
		if !ok {
			return "", false
		}
		return preview.Render(match, id, origin, h.now()), true
	})
	if !ok {
		writeText(w, http.StatusNotFound, notFoundBody)
		return
	}

	w.Header().Set("Cache-Control", imageCacheControl)
	writeBody(w, r, preview.ContentType, svg)
}

// parseImagePath splits /og/<kind>/<id>.svg. Both segments must be non-empty
// and contain no further slashes.
func parseImagePath(path string) (kind, id string, ok bool) {
	rest, ok := strings.CutPrefix(path, imagePrefix)
	if !ok {
		return "", "", false
	}
	rest, ok = strings.CutSuffix(rest, imageSuffix)
	if !ok {
		return "", "", false
	}
	kind, id, ok = strings.Cut(rest, "/")
	if !ok || kind == "" || id == "" || strings.Contains(id, "/") {
		return "", "", false
	}
	return kind, id, true
}

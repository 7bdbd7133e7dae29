package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/footy-guide-ssr/internal/cache"
	"github.com/preston-bernstein/footy-guide-ssr/internal/domain/matches"
	"github.com/preston-bernstein/footy-guide-ssr/internal/http/requestutil"
	"github.com/preston-bernstein/footy-guide-ssr/internal/logging"
	"github.com/preston-bernstein/footy-guide-ssr/internal/markup"
	"github.com/preston-bernstein/footy-guide-ssr/internal/render"
	"github.com/preston-bernstein/footy-guide-ssr/internal/social"
)

var errTemplateUnset = errors.New("page template not configured")

// Page renders the application for any path the other routes do not claim.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	html, err := h.renderPage(r)
	if err != nil {
		args := []any{logging.FieldURL, r.URL.RequestURI()}
		if h.development {
			args = append(args, "error_chain", logging.ErrorChain(err))
		}
		logging.Error(logger, "page render failed", err, args...)
		writeText(w, http.StatusInternalServerError, serverErrorBody)
		return
	}
	writeBody(w, r, htmlContentType, html)
}

func (h *Handler) renderPage(r *http.Request) (string, error) {
	ctx := r.Context()
	origin := requestutil.Origin(r, h.trustProxy)
	id := matchIDFromPath(r.URL.Path)

	head := ""
	if id != "" {
		head = h.matchMetadata(ctx, origin, id)
	}

	result, err := h.renderer.Render(ctx, r.URL.RequestURI())
	if err != nil {
		return "", fmt.Errorf("render %s: %w", r.URL.RequestURI(), err)
	}

	if head == "" && id != "" {
		head = h.fallbackMetadata(loggerFromContext(r, h.logger), result, origin, id)
	}

	script, err := markup.StateScript(result.State)
	if err != nil {
		return "", fmt.Errorf("serialize state: %w", err)
	}
	if h.templates == nil {
		return "", errTemplateUnset
	}
	tpl, err := h.templates.Current()
	if err != nil {
		return "", err
	}
	return tpl.Assemble(head, result.HTML, script)
}

// matchMetadata runs the cache, fetch and build chain. Concurrent misses for
// the same key share one fetch; failures are not cached.
func (h *Handler) matchMetadata(ctx context.Context, origin, id string) string {
	value, _ := h.meta.Load(ctx, cache.Key(origin, id), h.meta.TTL(), func(ctx context.Context) (string, bool) {
		match, ok := h.fetchMatch(ctx, id)
		if !ok {
			return "", false
		}
		return social.BuildMetadata(match, origin, id, h.site).String(), true
	})
	return value
}

// fallbackMetadata builds tags from the match the application already loaded
// into its hydration state.
func (h *Handler) fallbackMetadata(logger *slog.Logger, result render.Result, origin, id string) string {
	state, err := render.ParseState(result.State)
	if err != nil {
		logging.Warn(logger, "hydration state unreadable", logging.FieldResourceID, id, "error", err)
		return ""
	}
	data, ok := state.FindQuery(matchKind, id)
	if !ok {
		return ""
	}
	match, ok := matches.Decode(data)
	if !ok {
		return ""
	}
	return social.BuildMetadata(match, origin, id, h.site).String()
}

// matchIDFromPath returns the id segment of /matches/<id>, or "" when the path
// is not a match page or the id is not numeric.
func matchIDFromPath(path string) string {
	rest, ok := strings.CutPrefix(path, matchPrefix)
	if !ok {
		return ""
	}
	id, _, _ := strings.Cut(rest, "/")
	if !matches.IsNumericID(id) {
		return ""
	}
	return id
}

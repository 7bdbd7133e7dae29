package handlers

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/footy-guide-ssr/internal/http/requestutil"
	"github.com/preston-bernstein/footy-guide-ssr/internal/logging"
)

// Purger is a cache that can be emptied on demand.
type Purger interface {
	Name() string
	Len() int
	Purge()
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	caches []Purger
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(token string, logger *slog.Logger, caches ...Purger) *AdminHandler {
	return &AdminHandler{
		caches: caches,
		token:  token,
		logger: logger,
	}
}

// PurgeCaches empties every cache and reports how many entries each held.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) PurgeCaches(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	purged := make(map[string]int, len(h.caches))
	for _, c := range h.caches {
		purged[c.Name()] = c.Len()
		c.Purge()
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"purged": purged,
	}, logger)
	logging.Info(logger, "admin caches purged", slog.Any(logging.FieldCount, purged))
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.token
}

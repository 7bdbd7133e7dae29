package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// ArsenalChelseaJSON is a complete match payload as the matches API returns it.
const ArsenalChelseaJSON = `{
	"id": 42,
	"date": "2024-05-01",
	"time": "15:00",
	"home_team": {"name": "Arsenal", "logo_url": "https://img.example/arsenal.png"},
	"away_team": {"name": "Chelsea", "logo_url": "https://img.example/chelsea.png"},
	"competition": {"name": "Premier League"},
	"channels": [{"name": "Sky Sports"}, {"name": "NOW"}]
}`

// HomeOnlyJSON is a match payload with only the home side known.
const HomeOnlyJSON = `{"id": 7, "date": "2024-06-01", "home_team": {"name": "Arsenal"}}`

// Upstream is a stub matches API. Bodies maps a match id to the JSON served
// for it; unknown ids get a 404. Every request is counted.
type Upstream struct {
	*httptest.Server

	mu     sync.Mutex
	bodies map[string]string
	calls  map[string]int
	keys   []string
}

// NewUpstream starts a stub matches API that is closed with the test.
func NewUpstream(t *testing.T, bodies map[string]string) *Upstream {
	t.Helper()
	u := &Upstream{bodies: bodies, calls: make(map[string]int)}
	u.Server = httptest.NewServer(http.HandlerFunc(u.serve))
	t.Cleanup(u.Close)
	return u
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/matches/")

	u.mu.Lock()
	u.calls[id]++
	u.keys = append(u.keys, r.Header.Get("x-api-key"))
	body, ok := u.bodies[id]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, body)
}

// Calls returns how many times id was requested.
func (u *Upstream) Calls(id string) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.calls[id]
}

// APIKeys returns the x-api-key header of every request in order.
func (u *Upstream) APIKeys() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.keys...)
}

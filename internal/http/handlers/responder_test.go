package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/footy-guide-ssr/internal/testutil"
)

func TestWriteErrorIncludesRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	logger, _ := testutil.NewBufferLogger()

	req.Header.Set("X-Request-ID", "abc123")

	rr := testutil.ServeRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTeapot, "boom", logger)
	}), req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected content type json, got %s", got)
	}
	body := rr.Body.String()
	if !bytes.Contains([]byte(body), []byte("abc123")) {
		t.Fatalf("expected requestId in body, got %s", body)
	}
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := testutil.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, make(chan int), logger)
	}), http.MethodGet, "/encode-error", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status written even on encode error, got %d", rr.Code)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected logger to record encode error")
	}
}

func TestWriteErrorFallsBackToHeaderRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "header-id")
	writeError(rr, req, http.StatusTeapot, "boom", logger)
	if !bytes.Contains(rr.Body.Bytes(), []byte("header-id")) {
		t.Fatalf("expected header request id used when context missing")
	}
}

func TestWriteTextAndBody(t *testing.T) {
	rr := httptest.NewRecorder()
	writeText(rr, http.StatusNotFound, "Not Found")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertHeader(t, rr, "Content-Type", "text/plain; charset=utf-8")
	if rr.Body.String() != "Not Found" {
		t.Fatalf("unexpected body %q", rr.Body.String())
	}

	head := httptest.NewRequest(http.MethodHead, "/", nil)
	rr = httptest.NewRecorder()
	writeBody(rr, head, "text/html; charset=utf-8", "<html></html>")
	testutil.AssertStatus(t, rr, http.StatusOK)
	if rr.Body.Len() != 0 {
		t.Fatalf("expected no body for HEAD, got %q", rr.Body.String())
	}
}

func TestRequireMethodSetsAllow(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/cache/purge", nil)
	if requireMethod(rr, req, http.MethodPost, nil) {
		t.Fatalf("expected method mismatch")
	}
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
	testutil.AssertHeader(t, rr, "Allow", http.MethodPost)
}

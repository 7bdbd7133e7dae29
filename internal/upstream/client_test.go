package upstream

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/footy-guide-ssr/internal/metrics"
	"github.com/preston-bernstein/footy-guide-ssr/internal/testutil"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

const arsenalChelsea = `{"id":42,"date":"2024-05-01","time":"20:00","home_team":{"name":"Arsenal"},"away_team":{"name":"Chelsea"},"competition":{"name":"Premier League"},"channels":[{"name":"Sky"}]}`

func newTestClient(baseURL string, recorder *metrics.Recorder) *Client {
	logger, _ := testutil.NewBufferLogger()
	return NewClient(Config{
		BaseURL:      baseURL,
		APIKey:       "secret",
		Timeout:      2 * time.Second,
		InitialDelay: time.Millisecond,
		Recorder:     recorder,
		Logger:       logger,
	})
}

func TestFetchMatchSendsHeadersAndDecodes(t *testing.T) {
	var gotPath, gotKey, gotAccept, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, arsenalChelsea)
	}))
	defer srv.Close()

	recorder := metrics.NewRecorder()
	match, ok := newTestClient(srv.URL+"/", recorder).FetchMatch(context.Background(), "42")
	if !ok {
		t.Fatalf("expected match to be present")
	}
	if gotPath != "/matches/42" {
		t.Fatalf("expected /matches/42, got %s", gotPath)
	}
	if gotKey != "secret" || gotAccept != "application/json" || gotContentType != "application/json" {
		t.Fatalf("unexpected headers key=%q accept=%q content-type=%q", gotKey, gotAccept, gotContentType)
	}
	if match.HomeName() != "Arsenal" || match.AwayName() != "Chelsea" {
		t.Fatalf("unexpected match %+v", match)
	}
	if recorder.UpstreamCalls(Name) != 1 || recorder.UpstreamErrors(Name) != 0 {
		t.Fatalf("expected one successful attempt recorded")
	}
}

func TestFetchMatchOmitsAPIKeyWhenUnset(t *testing.T) {
	var sawKey bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawKey = r.Header["X-Api-Key"]
		_, _ = io.WriteString(w, arsenalChelsea)
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL})
	if _, ok := client.FetchMatch(context.Background(), "42"); !ok {
		t.Fatalf("expected match")
	}
	if sawKey {
		t.Fatalf("expected no x-api-key header without a key")
	}
}

func TestFetchMatchDisabledWithoutBaseURL(t *testing.T) {
	client := NewClient(Config{
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			t.Fatalf("no request expected without a base url")
			return nil, nil
		})},
	})
	if client.Enabled() {
		t.Fatalf("expected client to be disabled")
	}
	if _, ok := client.FetchMatch(context.Background(), "42"); ok {
		t.Fatalf("expected absent without base url")
	}
}

func TestFetchMatchNotFoundIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "missing", http.StatusNotFound)
	}))
	defer srv.Close()

	recorder := metrics.NewRecorder()
	if _, ok := newTestClient(srv.URL, recorder).FetchMatch(context.Background(), "7"); ok {
		t.Fatalf("expected absent on 404")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt on 404, got %d", got)
	}
	if recorder.UpstreamErrors(Name) != 1 {
		t.Fatalf("expected error recorded, got %d", recorder.UpstreamErrors(Name))
	}
}

func TestFetchMatchRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, arsenalChelsea)
	}))
	defer srv.Close()

	recorder := metrics.NewRecorder()
	if _, ok := newTestClient(srv.URL, recorder).FetchMatch(context.Background(), "42"); !ok {
		t.Fatalf("expected success after retries")
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if recorder.UpstreamCalls(Name) != 3 || recorder.UpstreamErrors(Name) != 2 {
		t.Fatalf("unexpected recorder counts calls=%d errors=%d", recorder.UpstreamCalls(Name), recorder.UpstreamErrors(Name))
	}
}

func TestFetchMatchGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	recorder := metrics.NewRecorder()
	if _, ok := newTestClient(srv.URL, recorder).FetchMatch(context.Background(), "42"); ok {
		t.Fatalf("expected absent when rate limited")
	}
	if got := atomic.LoadInt32(&calls); got != 1+defaultMaxRetries {
		t.Fatalf("expected %d attempts, got %d", 1+defaultMaxRetries, got)
	}
	if recorder.RateLimitHits(Name) != 1+defaultMaxRetries {
		t.Fatalf("expected rate limit hits recorded, got %d", recorder.RateLimitHits(Name))
	}
	if recorder.LastRetryAfter(Name) != 3*time.Second {
		t.Fatalf("expected retry-after 3s, got %s", recorder.LastRetryAfter(Name))
	}
}

func TestFetchMatchBadBodiesAreAbsent(t *testing.T) {
	for _, body := range []string{"not json", "[]", "null", `"text"`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, body)
		}))
		if _, ok := newTestClient(srv.URL, nil).FetchMatch(context.Background(), "42"); ok {
			t.Fatalf("expected absent for body %q", body)
		}
		srv.Close()
	}
}

func TestFetchMatchOversizedBodyIsAbsentAndNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		padding := strings.Repeat(" ", maxMatchBody)
		_, _ = io.WriteString(w, `{"id":42,"home_team":{"name":"Arsenal"}}`+padding)
	}))
	defer srv.Close()

	if _, ok := newTestClient(srv.URL, nil).FetchMatch(context.Background(), "42"); ok {
		t.Fatal("expected oversized body to be absent")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

func TestFetchMatchTransportErrorIsAbsent(t *testing.T) {
	var calls int32
	client := NewClient(Config{
		BaseURL:      "http://upstream.invalid",
		InitialDelay: time.Millisecond,
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			atomic.AddInt32(&calls, 1)
			return nil, errors.New("connection refused")
		})},
	})
	if _, ok := client.FetchMatch(context.Background(), "42"); ok {
		t.Fatalf("expected absent on transport error")
	}
	if got := atomic.LoadInt32(&calls); got != 1+defaultMaxRetries {
		t.Fatalf("expected transport errors to be retried, got %d attempts", got)
	}
}

func TestFetchMatchHonoursTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond, MaxRetries: 0})
	start := time.Now()
	if _, ok := client.FetchMatch(context.Background(), "42"); ok {
		t.Fatalf("expected absent on timeout")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("expected fetch to stop near the timeout, took %s", elapsed)
	}
}

func TestFetchMatchEscapesID(t *testing.T) {
	var gotPath string
	client := NewClient(Config{
		BaseURL: "http://upstream.test",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			gotPath = r.URL.EscapedPath()
			return &http.Response{
				StatusCode: http.StatusNotFound,
				Body:       io.NopCloser(strings.NewReader("")),
				Header:     make(http.Header),
			}, nil
		})},
	})
	client.FetchMatch(context.Background(), "a/b")
	if gotPath != "/matches/a%2Fb" {
		t.Fatalf("expected escaped id in path, got %s", gotPath)
	}
}

func TestStatusErrorRetryable(t *testing.T) {
	cases := map[int]bool{
		http.StatusNotFound:            false,
		http.StatusBadRequest:          false,
		http.StatusTooManyRequests:     true,
		http.StatusInternalServerError: true,
		http.StatusServiceUnavailable:  true,
	}
	for code, want := range cases {
		err := &StatusError{StatusCode: code}
		if got := err.Retryable(); got != want {
			t.Fatalf("status %d retryable=%v, want %v", code, got, want)
		}
	}
	wrapped := errors.Join(errors.New("outer"), &StatusError{StatusCode: 502, Body: "bad gateway"})
	statusErr, ok := AsStatusError(wrapped)
	if !ok || statusErr.StatusCode != 502 {
		t.Fatalf("expected to unwrap status error, got %v", wrapped)
	}
	if !strings.Contains(statusErr.Error(), "bad gateway") {
		t.Fatalf("expected body in message, got %s", statusErr.Error())
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("5"); got != 5*time.Second {
		t.Fatalf("expected 5s, got %s", got)
	}
	for _, raw := range []string{"", "soon", "-1"} {
		if got := parseRetryAfter(raw); got != 0 {
			t.Fatalf("expected 0 for %q, got %s", raw, got)
		}
	}
}

package upstream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/footy-guide-ssr/internal/domain/matches"
	"github.com/preston-bernstein/footy-guide-ssr/internal/logging"
	"github.com/preston-bernstein/footy-guide-ssr/internal/metrics"
)

// Config controls how the client reaches the matches API.
type Config struct {
	BaseURL string
	APIKey  string
	// Timeout bounds a whole FetchMatch call, retries included.
	Timeout time.Duration
	// MaxRetries is the number of extra attempts after the first. Negative
	// selects the default.
	MaxRetries   int
	InitialDelay time.Duration
	HTTPClient   *http.Client
	Recorder     *metrics.Recorder
	Logger       *slog.Logger
}

// Client fetches single match records from the matches API.
type Client struct {
	baseURL      string
	apiKey       string
	timeout      time.Duration
	maxRetries   int
	initialDelay time.Duration
	httpClient   httpDoer
	recorder     *metrics.Recorder
	logger       *slog.Logger
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = defaultInitialDelay
	}
	return &Client{
		baseURL:      normalizeBaseURL(cfg.BaseURL),
		apiKey:       cfg.APIKey,
		timeout:      resolveTimeout(cfg.Timeout),
		maxRetries:   resolveRetries(cfg.MaxRetries),
		initialDelay: delay,
		httpClient:   resolveHTTPClient(cfg.HTTPClient),
		recorder:     cfg.Recorder,
		logger:       cfg.Logger,
	}
}

// Enabled reports whether a base URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// FetchMatch retrieves the match with the given id. Every failure mode
// (no base URL, transport error, non-2xx, undecodable body) yields false.
func (c *Client) FetchMatch(ctx context.Context, id string) (matches.Match, bool) {
	if !c.Enabled() {
		return matches.Match{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	match, err := c.fetchWithRetry(ctx, id)
	if err != nil {
		logger := logging.FromContext(ctx, c.logger)
		logging.Warn(logger, "upstream fetch failed",
			logging.FieldUpstream, Name,
			logging.FieldResourceID, id,
			"error", err,
		)
		return matches.Match{}, false
	}
	return match, true
}

func (c *Client) fetchWithRetry(ctx context.Context, id string) (matches.Match, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialDelay
	policy.MaxElapsedTime = 0
	bounded := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxRetries)), ctx)

	attempt := 0
	operation := func() (matches.Match, error) {
		attempt++
		match, err := c.fetchOnce(ctx, id)
		if err == nil {
			return match, nil
		}
		if statusErr, ok := AsStatusError(err); ok && !statusErr.Retryable() {
			return matches.Match{}, backoff.Permanent(err)
		}
		if errors.Is(err, errBadBody) {
			return matches.Match{}, backoff.Permanent(err)
		}
		return matches.Match{}, err
	}
	notify := func(err error, delay time.Duration) {
		logging.Warn(logging.FromContext(ctx, c.logger), "upstream fetch retry",
			logging.FieldUpstream, Name,
			logging.FieldResourceID, id,
			"attempt", attempt,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
	}

	return backoff.RetryNotifyWithData(operation, bounded, notify)
}

func (c *Client) fetchOnce(ctx context.Context, id string) (match matches.Match, err error) {
	start := time.Now()
	defer func() {
		c.recorder.RecordUpstreamAttempt(Name, time.Since(start), err)
	}()

	req, err := c.buildRequest(ctx, id)
	if err != nil {
		return matches.Match{}, backoff.Permanent(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return matches.Match{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &StatusError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Body:       strings.TrimSpace(string(body)),
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			c.recorder.RecordRateLimit(Name, statusErr.RetryAfter)
		}
		return matches.Match{}, statusErr
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxMatchBody+1))
	if err != nil {
		return matches.Match{}, err
	}
	if len(raw) > maxMatchBody {
		return matches.Match{}, errBodyTooLarge
	}
	decoded, ok := matches.Decode(raw)
	if !ok {
		return matches.Match{}, errBadBody
	}
	return decoded, nil
}

func (c *Client) buildRequest(ctx context.Context, id string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+matchesPath+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}
	return req, nil
}

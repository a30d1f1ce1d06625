package statuspage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

const (
	statusPath    = "/api/v2/status.json"
	incidentsPath = "/api/v2/incidents.json"
	summaryPath   = "/api/v2/summary.json"

	userAgent = "statuswatch/1.0 (status poller; +https://github.com/statuswatch/statuswatch)"

	defaultMaxBytes int64 = 2 << 20
)

// Client fetches the three statuspage endpoints for a single provider.
// Failed requests are retried with linear backoff; malformed responses are not.
type Client struct {
	logger   zerolog.Logger
	baseURL  string
	http     *retryablehttp.Client
	maxBytes int64
}

// NewClient constructs a Client for the given provider base URL. Requests are
// retried up to maxRetries times with a delay of retryDelay times the attempt
// number (retryDelay, 2*retryDelay, ...). Each attempt is bounded by timeout.
func NewClient(logger zerolog.Logger, baseURL string, timeout time.Duration, maxRetries int, retryDelay time.Duration) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("provider base url must not be empty")
	}
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "https://" + baseURL
	}
	if timeout <= 0 {
		return nil, errors.New("timeout must be greater than zero")
	}
	if maxRetries < 0 {
		return nil, errors.New("max retries cannot be negative")
	}

	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = maxRetries
	client.HTTPClient = &http.Client{Timeout: timeout}
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Backoff = func(_, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
		return retryDelay * time.Duration(attemptNum+1)
	}
	client.CheckRetry = func(ctx context.Context, resp *http.Response, err error) (bool, error) {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		if err != nil {
			return true, nil
		}
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return true, nil
		}
		return false, nil
	}

	return &Client{
		logger:   logger,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     client,
		maxBytes: defaultMaxBytes,
	}, nil
}

// BaseURL returns the normalized provider base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Status fetches the page-wide status indicator.
func (c *Client) Status(ctx context.Context) (StatusResponse, error) {
	var out StatusResponse
	if err := c.getJSON(ctx, statusPath, &out); err != nil {
		return StatusResponse{}, err
	}
	return out, nil
}

// Incidents fetches the incident list, newest first per provider convention.
func (c *Client) Incidents(ctx context.Context) ([]Incident, error) {
	var out IncidentsResponse
	if err := c.getJSON(ctx, incidentsPath, &out); err != nil {
		return nil, err
	}
	return out.Incidents, nil
}

// Summary fetches the component summary.
func (c *Client) Summary(ctx context.Context) (SummaryResponse, error) {
	var out SummaryResponse
	if err := c.getJSON(ctx, summaryPath, &out); err != nil {
		return SummaryResponse{}, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	url := c.baseURL + path

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransportError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBytes))
		return &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return classifyTransportError(url, err)
	}
	if int64(len(body)) > c.maxBytes {
		return &ParseError{URL: url, Err: fmt.Errorf("body exceeds %d bytes", c.maxBytes)}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &ParseError{URL: url, Err: err}
	}

	c.logger.Debug().Str("url", url).Int("bytes", len(body)).Msg("fetched")
	return nil
}

func classifyTransportError(url string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{URL: url, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: url, Err: err}
	}
	return &NetworkError{URL: url, Err: err}
}

package statuspage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T, url string, timeout time.Duration, maxRetries int) *Client {
	t.Helper()
	client, err := NewClient(zerolog.Nop(), url, timeout, maxRetries, time.Millisecond)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestClient_Status_OK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/status.json" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Fatalf("expected Accept header, got %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != userAgent {
			t.Fatalf("unexpected user agent: %q", got)
		}
		_, _ = w.Write([]byte(`{"page":{"name":"Example"},"status":{"indicator":"minor","description":"Minor outage"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second, 0)

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status.Status.Indicator != "minor" {
		t.Fatalf("unexpected indicator: %q", status.Status.Indicator)
	}
	if status.Status.Description != "Minor outage" {
		t.Fatalf("unexpected description: %q", status.Status.Description)
	}
}

func TestClient_Incidents_ParsesResolvedAt(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"incidents":[
			{"id":"a","name":"API errors","status":"resolved","impact":"major",
			 "created_at":"2024-05-10T10:00:00Z","resolved_at":"2024-05-10T11:30:00Z",
			 "incident_updates":[{"body":"fixed","created_at":"2024-05-10T11:30:00Z"}]},
			{"id":"b","name":"Ongoing","status":"investigating",
			 "created_at":"2024-05-10T11:00:00Z","resolved_at":null}
		]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second, 0)

	incidents, err := client.Incidents(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("expected 2 incidents, got %d", len(incidents))
	}
	if incidents[0].ResolvedAt == nil {
		t.Fatalf("expected resolved_at to be set")
	}
	if incidents[1].ResolvedAt != nil {
		t.Fatalf("expected null resolved_at to stay nil")
	}
	if len(incidents[1].Updates) != 0 {
		t.Fatalf("expected missing updates to decode as empty")
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"status":{"indicator":"none"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second, 3)

	status, err := client.Status(context.Background())
	if err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if status.Status.Indicator != "none" {
		t.Fatalf("unexpected indicator: %q", status.Status.Indicator)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestClient_HTTPErrorAfterExhaustedRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second, 2)

	_, err := client.Status(context.Background())
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status code: %d", httpErr.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 3 {
		t.Fatalf("expected 3 attempts (1 + 2 retries), got %d", got)
	}
}

func TestClient_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second, 3)

	_, err := client.Status(context.Background())
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected single attempt for 404, got %d", got)
	}
}

func TestClient_ParseErrorNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		_, _ = w.Write([]byte(`{not-json`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, time.Second, 3)

	_, err := client.Status(context.Background())
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected single attempt for malformed body, got %d", got)
	}
}

func TestClient_TimeoutError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, 20*time.Millisecond, 0)

	_, err := client.Status(context.Background())
	var timeoutErr *TimeoutError
	if !errors.As(err, &timeoutErr) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, url, time.Second, 0)

	_, err := client.Status(context.Background())
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
}

func TestNewClient_Validation(t *testing.T) {
	if _, err := NewClient(zerolog.Nop(), "", time.Second, 3, time.Second); err == nil {
		t.Fatalf("expected error for empty url")
	}
	if _, err := NewClient(zerolog.Nop(), "https://example.com", 0, 3, time.Second); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
	if _, err := NewClient(zerolog.Nop(), "https://example.com", time.Second, -1, time.Second); err == nil {
		t.Fatalf("expected error for negative retries")
	}

	client, err := NewClient(zerolog.Nop(), "status.example.com/", time.Second, 3, time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.BaseURL() != "https://status.example.com" {
		t.Fatalf("unexpected base url: %q", client.BaseURL())
	}
}

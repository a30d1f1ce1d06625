package healthcheck

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReadyHandler(t *testing.T) {
	tracker := NewTracker()
	handler := ReadyHandler(tracker)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first cycle, got %d", rec.Code)
	}

	tracker.RecordCycle(120*time.Millisecond, 2)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after first cycle, got %d", rec.Code)
	}

	var snapshot Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snapshot); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if snapshot.LastCycleTime == nil {
		t.Fatalf("expected last cycle time to be set")
	}
	if snapshot.CycleDurationMS != 120 {
		t.Fatalf("unexpected cycle duration: %d", snapshot.CycleDurationMS)
	}
	if snapshot.ProvidersPolled != 2 {
		t.Fatalf("unexpected providers polled: %d", snapshot.ProvidersPolled)
	}
}

func TestHealthHandler(t *testing.T) {
	tracker := NewTracker()
	handler := HealthHandler(tracker, time.Minute)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 before first cycle, got %d", rec.Code)
	}

	tracker.RecordCycle(time.Second, 2)

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 after recent cycle, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type: %q", got)
	}
}

func TestTracker_HealthyWindow(t *testing.T) {
	tracker := NewTracker()
	tracker.RecordCycle(time.Second, 2)

	now := time.Now().UTC()
	if !tracker.Healthy(now, time.Minute) {
		t.Fatalf("expected healthy immediately after a cycle")
	}
	if tracker.Healthy(now.Add(3*time.Minute), time.Minute) {
		t.Fatalf("expected unhealthy after missing two intervals")
	}
	if tracker.Healthy(now, 0) {
		t.Fatalf("expected unhealthy with zero interval")
	}
}

func TestTracker_NilSafe(t *testing.T) {
	var tracker *Tracker
	tracker.RecordCycle(time.Second, 1)
	if tracker.Ready() {
		t.Fatalf("nil tracker must not report ready")
	}
	if tracker.Healthy(time.Now(), time.Minute) {
		t.Fatalf("nil tracker must not report healthy")
	}
	if snapshot := tracker.Snapshot(); snapshot.LastCycleTime != nil {
		t.Fatalf("nil tracker snapshot should be empty")
	}
}

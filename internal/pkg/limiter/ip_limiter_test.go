package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestGetLimiterReusesPerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	defer l.Stop()

	if l.GetLimiter("10.0.0.1") != l.GetLimiter("10.0.0.1") {
		t.Error("Expected the same limiter for the same IP")
	}
	if l.GetLimiter("10.0.0.1") == l.GetLimiter("10.0.0.2") {
		t.Error("Expected distinct limiters for distinct IPs")
	}
}

func TestMiddlewareRejectsAfterBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(0.001), 2)
	defer l.Stop()

	handler := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	statuses := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		statuses = append(statuses, rec.Code)
	}

	if statuses[0] != http.StatusNoContent || statuses[1] != http.StatusNoContent {
		t.Fatalf("Expected first two requests to pass, got %v", statuses)
	}
	if statuses[2] != http.StatusTooManyRequests {
		t.Errorf("Expected third request to be limited, got %d", statuses[2])
	}
}

func TestSweepRemovesIdleLimiters(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(10), 1)
	defer l.Stop()

	l.GetLimiter("10.0.0.1")
	busy := l.GetLimiter("10.0.0.2")
	busy.Allow()

	removed := l.sweep(time.Now())
	if removed != 1 {
		t.Errorf("Expected 1 idle limiter removed, got %d", removed)
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:443"
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("ClientIP = %q", got)
	}

	req.RemoteAddr = ""
	if got := ClientIP(req); got != "unknown_ip" {
		t.Errorf("ClientIP(empty) = %q", got)
	}
}

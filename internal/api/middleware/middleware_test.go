package middleware

import (
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitBlocksExcessRequests(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	handler := RateLimit(okHandler(), rl)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/library/want", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/library/want", nil)
	req.RemoteAddr = "10.0.0.1:12345"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["error"] != "too many requests" {
		t.Errorf("Unexpected error body %v", body)
	}

	// other clients keep their own bucket
	req = httptest.NewRequest(http.MethodGet, "/api/library/want", nil)
	req.RemoteAddr = "10.0.0.2:12345"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 for another client, got %d", rec.Code)
	}
}

func TestRateLimiterEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	current := time.Now()
	rl.now = func() time.Time { return current }

	rl.Allow("10.0.0.1")
	current = current.Add(limiterIdleTimeout + 2*time.Minute)
	rl.Allow("10.0.0.2")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.limiters["10.0.0.1"]; ok {
		t.Error("Expected idle client to be evicted")
	}
	if len(rl.limiters) != 1 {
		t.Errorf("Expected 1 tracked client, got %d", len(rl.limiters))
	}
}

func TestClientIPIgnoresHeadersFromUntrustedPeers(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4242"
	if got := rl.clientIP(req); got != "192.168.1.5" {
		t.Errorf("Expected remote host, got %s", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	if got := rl.clientIP(req); got != "192.168.1.5" {
		t.Errorf("Expected forwarding headers to be ignored, got %s", got)
	}
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	_, proxies, _ := net.ParseCIDR("10.0.0.0/8")
	rl := NewRateLimiter(1, 1, proxies)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:4242"
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 203.0.113.7, 10.0.0.9")
	if got := rl.clientIP(req); got != "203.0.113.7" {
		t.Errorf("Expected the last untrusted hop, got %s", got)
	}

	req.Header.Del("X-Forwarded-For")
	req.Header.Set("X-Real-IP", "203.0.113.8")
	if got := rl.clientIP(req); got != "203.0.113.8" {
		t.Errorf("Expected X-Real-IP, got %s", got)
	}

	req.Header.Del("X-Real-IP")
	if got := rl.clientIP(req); got != "10.0.0.2" {
		t.Errorf("Expected proxy address without headers, got %s", got)
	}
}

func TestRotatingForwardedForDoesNotBypassLimit(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	handler := RateLimit(okHandler(), rl)

	codes := make([]int, 0, 2)
	for _, forwarded := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/library/want", nil)
		req.RemoteAddr = "192.0.2.10:5555"
		req.Header.Set("X-Forwarded-For", forwarded)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Errorf("Expected 200 then 429, got %v", codes)
	}
}

func TestLoggingKeepsStatus(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), logger)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("Expected 418, got %d", rec.Code)
	}
}

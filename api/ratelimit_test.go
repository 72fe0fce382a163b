package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
)

func limitedRouter(rl *ClientRateLimiter) *mux.Router {
	r := mux.NewRouter()
	r.Use(ClientIdentityMiddleware())
	r.Use(RateLimitMiddleware(rl))
	r.HandleFunc("/api/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	rl := NewClientRateLimiter(60, 5)
	defer rl.Stop()
	handler := limitedRouter(rl)

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		req.Header.Set("X-Client-ID", "7d444840-9dc0-11d1-b245-5ffdce74fad2")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestRateLimit_BlocksPerClient(t *testing.T) {
	rl := NewClientRateLimiter(1, 2)
	defer rl.Stop()
	handler := limitedRouter(rl)

	send := func(client string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		req.Header.Set("X-Client-ID", client)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	a := "7d444840-9dc0-11d1-b245-5ffdce74fad2"
	b := "9a1f2c1e-4e8b-4d0a-9d9b-0c2f5b7b9e11"
	for i := 0; i < 2; i++ {
		if rec := send(a); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := send(a)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if got := rec.Header().Get("Retry-After"); got != "60" {
		t.Fatalf("expected Retry-After 60, got %q", got)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "too many requests" {
		t.Fatalf("unexpected error body: %v", body)
	}

	// Another client behind the same IP has its own bucket.
	if rec := send(b); rec.Code != http.StatusOK {
		t.Fatalf("other client: expected 200, got %d", rec.Code)
	}
}

func TestRateKeyFallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.9:5555"
	if got := RateKey(req); got != "ip:192.168.1.9" {
		t.Fatalf("RateKey = %q", got)
	}
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := RateKey(req); got != "ip:203.0.113.7" {
		t.Fatalf("RateKey with XFF = %q", got)
	}
}

func TestRateLimitNilDisables(t *testing.T) {
	handler := limitedRouter(nil)
	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

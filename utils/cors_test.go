package utils

import (
	"net/http/httptest"
	"testing"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin  string
		allowed bool
	}{
		{"http://localhost:7878", true},
		{"http://192.168.1.20:7878", true},
		{"http://10.0.0.1", true},
		{"http://172.31.255.255:443", true},
		{"http://127.0.0.1:3000", true},
		{"http://169.254.1.1", true},
		{"http://[::1]:7878", true},
		{"http://mynas.local", true},
		{"http://cinebox:7878", true},

		{"https://evil.com", false},
		{"http://image.tmdb.org.evil.com", false},
		{"http://8.8.8.8", false},
		{"http://[2001:4860:4860::8888]", false},
		{"", false},
		{"not-a-url", false},
	}
	for _, tt := range tests {
		if got := IsAllowedOrigin(tt.origin); got != tt.allowed {
			t.Errorf("IsAllowedOrigin(%q) = %v, want %v", tt.origin, got, tt.allowed)
		}
	}
}

func TestOriginPolicyExtra(t *testing.T) {
	p := NewOriginPolicy([]string{"https://Cine.Example.com", "::bad"})

	if !p.Allowed("https://cine.example.com") {
		t.Fatal("configured origin should be allowed")
	}
	if p.Allowed("http://cine.example.com") {
		t.Fatal("scheme must match")
	}
	if p.Allowed("https://other.example.com") {
		t.Fatal("unlisted public origin should be refused")
	}
}

func TestOriginPolicyAllowRequest(t *testing.T) {
	p := NewOriginPolicy(nil)

	req := httptest.NewRequest("GET", "http://cine.example.com/ws", nil)
	if !p.AllowRequest(req) {
		t.Fatal("request without Origin should pass")
	}

	req.Header.Set("Origin", "https://cine.example.com")
	if !p.AllowRequest(req) {
		t.Fatal("same-host origin should pass")
	}

	req.Header.Set("Origin", "https://evil.com")
	if p.AllowRequest(req) {
		t.Fatal("foreign origin should be refused")
	}
}

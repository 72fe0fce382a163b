package utils

import (
	"net"
	"net/http"
	"net/url"
	"strings"
)

// OriginPolicy decides which browser origins may call the API and open a
// session socket: the LAN rule below plus an explicit list from settings.
type OriginPolicy struct {
	extra map[string]bool
}

// NewOriginPolicy builds a policy from configured origins such as
// "https://cine.example.com". Entries that do not parse are skipped.
func NewOriginPolicy(extra []string) OriginPolicy {
	p := OriginPolicy{extra: make(map[string]bool, len(extra))}
	for _, o := range extra {
		if key := originKey(o); key != "" {
			p.extra[key] = true
		}
	}
	return p
}

// Allowed reports whether origin is trusted.
func (p OriginPolicy) Allowed(origin string) bool {
	if key := originKey(origin); key != "" && p.extra[key] {
		return true
	}
	return IsAllowedOrigin(origin)
}

// AllowRequest accepts requests without an Origin header, same-host
// requests, and origins the policy trusts.
func (p OriginPolicy) AllowRequest(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	return p.Allowed(origin)
}

func originKey(origin string) string {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// IsAllowedOrigin trusts localhost, private and link-local IPs, .local
// hostnames and single-label LAN names. Public origins are refused.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return false
	}
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	hostname := parsed.Hostname()
	switch {
	case hostname == "localhost":
		return true
	case strings.HasSuffix(hostname, ".local"):
		return true
	case !strings.Contains(hostname, ".") && !strings.Contains(hostname, ":"):
		return true
	}
	if ip := net.ParseIP(hostname); ip != nil {
		return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
	}
	return false
}

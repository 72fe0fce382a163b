package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"cinebox/internal/auth"
)

// ClientCookie names the cookie that identifies a browser. It stands in for
// the browser-local storage area the UI state used to live in.
const ClientCookie = "cinebox_client"

const clientCookieMaxAge = 400 * 24 * time.Hour

// Re-export so handlers only import api.
var ClientID = auth.GetClientID

// ClientIdentityMiddleware makes sure every request carries a client id,
// issuing a new cookie when the browser has none (or a malformed one).
// Non-browser callers may send X-Client-ID instead.
func ClientIdentityMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := extractClientID(r)
			if id == "" {
				id = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     ClientCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(clientCookieMaxAge.Seconds()),
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					Secure:   r.TLS != nil,
				})
			}
			next.ServeHTTP(w, r.WithContext(auth.WithClientID(r.Context(), id)))
		})
	}
}

// extractClientID prefers the cookie, then the X-Client-ID header.
// Only well-formed UUIDs are accepted.
func extractClientID(r *http.Request) string {
	if c, err := r.Cookie(ClientCookie); err == nil {
		if id, ok := parseClientID(c.Value); ok {
			return id
		}
	}
	if id, ok := parseClientID(r.Header.Get("X-Client-ID")); ok {
		return id
	}
	return ""
}

func parseClientID(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

// WriteJSONError answers {"error": msg} with the given status.
func WriteJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// RequireAccessToken rejects requests whose bearer token does not match
// token. An empty token disables the check.
func RequireAccessToken(token string) func(http.Handler) http.Handler {
	expected := sha256.Sum256([]byte(token))

	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			presented := sha256.Sum256([]byte(strings.TrimPrefix(authHeader, "Bearer ")))
			if subtle.ConstantTimeCompare(presented[:], expected[:]) != 1 {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

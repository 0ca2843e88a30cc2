package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// ExtractAccessToken returns the bearer token from the Authorization header.
// ok is false when the header is absent, uses another scheme, or carries an
// empty token.
func ExtractAccessToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

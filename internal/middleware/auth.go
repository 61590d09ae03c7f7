package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fiscalia/fiscalia-api/internal/domain/identity"
)

type contextKey string

const userKey contextKey = "user"

// BearerToken extracts the bearer credential from the Authorization header.
// Returns "" when absent.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

// RequireUser resolves the caller's identity and stores it in the request
// context. Resolution failure ends the request with 401.
func RequireUser(resolver identity.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := resolver.Resolve(r.Context(), BearerToken(r))
			if err != nil || user == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]string{"error": identity.ErrUnauthorized.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the resolved user from context
func UserFromContext(ctx context.Context) *identity.User {
	if u, ok := ctx.Value(userKey).(*identity.User); ok {
		return u
	}
	return nil
}

package identity

import (
	"context"
	"errors"
)

// ErrUnauthorized indicates the bearer credential is missing or was rejected
// by the identity provider.
var ErrUnauthorized = errors.New("invalid or missing access token")

// User is the authenticated caller. ID scopes all analysis storage and
// retrieval.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Resolver turns a bearer token into a user. Implementations: a verifying
// resolver backed by the identity provider, and a fixed-identity resolver
// for development setups.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*User, error)
}

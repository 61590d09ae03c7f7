// Package authn provides the identity-resolution implementations: a fixed
// development identity and a verifying resolver backed by the identity
// provider's HTTP API.
package authn

import (
	"context"

	"github.com/fiscalia/fiscalia-api/internal/domain/identity"
)

// StaticResolver returns the same fixed identity for every request without
// inspecting the token. Development posture only; selected explicitly via
// auth.mode, never the silent default when a provider is configured.
type StaticResolver struct {
	User identity.User
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{User: identity.User{
		ID:    "12345678-1234-1234-1234-123456789abc",
		Email: "dev@example.com",
		Name:  "Usuário Dev",
	}}
}

func (r *StaticResolver) Resolve(context.Context, string) (*identity.User, error) {
	u := r.User
	return &u, nil
}

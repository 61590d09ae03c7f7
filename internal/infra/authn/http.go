package authn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fiscalia/fiscalia-api/internal/domain/identity"
)

// HTTPResolver verifies bearer tokens against a Supabase-style identity
// provider (GET {base}/auth/v1/user).
type HTTPResolver struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func NewHTTPResolver(baseURL, anonKey string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type providerUser struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	UserMetadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

func (r *HTTPResolver) Resolve(ctx context.Context, token string) (*identity.User, error) {
	if token == "" {
		return nil, identity.ErrUnauthorized
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", r.anonKey)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, identity.ErrUnauthorized
	}

	var pu providerUser
	if err := json.NewDecoder(resp.Body).Decode(&pu); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	if pu.ID == "" {
		return nil, identity.ErrUnauthorized
	}
	return &identity.User{ID: pu.ID, Email: pu.Email, Name: pu.UserMetadata.FullName}, nil
}

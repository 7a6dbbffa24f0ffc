package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWKSURLDefault(t *testing.T) {
	t.Parallel()

	p := NewProvider(Config{Issuer: "https://auth.example.com/"})
	assert.Equal(t, "https://auth.example.com/.well-known/jwks.json", p.JWKSURL())

	p = NewProvider(Config{Issuer: "https://auth.example.com", JWKSURL: "https://keys.example.com/jwks"})
	assert.Equal(t, "https://keys.example.com/jwks", p.JWKSURL())
}

func TestGetLoginConfigUsesDiscovery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"authorization_endpoint": "https://idp.example.com/authorize",
			"token_endpoint":         "https://idp.example.com/token",
		})
	}))
	defer srv.Close()

	p := NewProvider(Config{
		Issuer:      srv.URL,
		ClientID:    "client-123",
		RedirectURL: "http://localhost:3000/callback",
	})

	cfg, err := p.GetLoginConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "https://idp.example.com/authorize", cfg.AuthorizationEndpoint)
	assert.Equal(t, "https://idp.example.com/token", cfg.TokenEndpoint)
	assert.Equal(t, "client-123", cfg.ClientID)
	assert.Equal(t, "openid email profile", cfg.Scope)
}

func TestGetLoginConfigFallsBackWithoutDiscovery(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	p := NewProvider(Config{Issuer: srv.URL, ClientID: "client-123"})

	cfg, err := p.GetLoginConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/oauth2/authorize", cfg.AuthorizationEndpoint)
	assert.Equal(t, srv.URL+"/oauth2/token", cfg.TokenEndpoint)
}

func TestNewClientEndpoints(t *testing.T) {
	t.Parallel()

	client := NewClient(Config{
		Issuer:      "https://auth.example.com",
		ClientID:    "client-123",
		RedirectURL: "http://localhost:3000/callback",
	})

	url := client.AuthCodeURL("state-xyz")
	assert.Contains(t, url, "https://auth.example.com/oauth2/authorize")
	assert.Contains(t, url, "client_id=client-123")
	assert.Contains(t, url, "state=state-xyz")
}

package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"
)

// Config is the static configuration for the identity provider.
type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
	// JWKSURL overrides the discovery default when set.
	JWKSURL string
}

// Provider exposes the OIDC endpoints the API and frontend need.
type Provider struct {
	cfg Config
}

// NewProvider creates a new OIDC provider from static configuration.
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

// Config returns the provider configuration.
func (p *Provider) Config() Config {
	return p.cfg
}

// JWKSURL returns the configured JWKS endpoint, defaulting to the
// issuer's conventional path.
func (p *Provider) JWKSURL() string {
	if p.cfg.JWKSURL != "" {
		return p.cfg.JWKSURL
	}
	return joinIssuerPath(p.cfg.Issuer, "/.well-known/jwks.json")
}

// GetLoginConfig returns the configuration needed for frontend OIDC
// login. Endpoints come from the issuer's discovery document when it is
// reachable, with issuer-derived fallbacks otherwise.
func (p *Provider) GetLoginConfig(ctx context.Context) (*LoginConfig, error) {
	authEndpoint, tokenEndpoint := p.discoverEndpoints(ctx)

	if authEndpoint == "" {
		authEndpoint = joinIssuerPath(p.cfg.Issuer, "/oauth2/authorize")
	}
	if tokenEndpoint == "" {
		tokenEndpoint = joinIssuerPath(p.cfg.Issuer, "/oauth2/token")
	}

	return &LoginConfig{
		AuthorizationEndpoint: authEndpoint,
		TokenEndpoint:         tokenEndpoint,
		ClientID:              p.cfg.ClientID,
		RedirectURI:           p.cfg.RedirectURL,
		Scope:                 "openid email profile",
	}, nil
}

func (p *Provider) discoverEndpoints(ctx context.Context) (authEndpoint, tokenEndpoint string) {
	discoveryURL := joinIssuerPath(p.cfg.Issuer, "/.well-known/openid-configuration")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return "", ""
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return "", ""
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var discovery struct {
		AuthorizationEndpoint string `json:"authorization_endpoint"`
		TokenEndpoint         string `json:"token_endpoint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err != nil {
		return "", ""
	}
	return discovery.AuthorizationEndpoint, discovery.TokenEndpoint
}

func joinIssuerPath(issuer, path string) string {
	return strings.TrimRight(issuer, "/") + path
}

// LoginConfig contains OIDC login configuration for frontend
type LoginConfig struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	ClientID              string `json:"client_id"`
	RedirectURI           string `json:"redirect_uri"`
	Scope                 string `json:"scope"`
}

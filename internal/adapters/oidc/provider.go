// Package oidc signs users in through an OpenID Connect identity provider.
package oidc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/ports"
	"golang.org/x/oauth2"
)

const (
	wellKnownSuffix  = "/.well-known/openid-configuration"
	discoveryTimeout = 30 * time.Second
	// fallbackTokenTTL applies when the token response carries no expiry.
	fallbackTokenTTL = time.Hour
)

var errNoIDToken = errors.New("token response has no id_token")

// ProviderConfig configures one OIDC client registration.
type ProviderConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL must match the registered callback exactly.
	RedirectURL  string
	Scope        string // space separated
	DiscoveryURL string // issuer URL, with or without the well-known suffix
	// LoginClaim picks the claim used as the login. Empty tries loginClaimOrder.
	LoginClaim string
	HTTPClient *http.Client
}

func (c ProviderConfig) validate() error {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"client ID", c.ClientID},
		{"client secret", c.ClientSecret},
		{"redirect URL", c.RedirectURL},
		{"discovery URL", c.DiscoveryURL},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name+" is required")
		}
	}
	if len(missing) > 0 {
		return errors.New(strings.Join(missing, "; "))
	}
	return nil
}

func (c ProviderConfig) issuer() string {
	return strings.TrimSuffix(strings.TrimSuffix(c.DiscoveryURL, "/"), wellKnownSuffix)
}

func (c ProviderConfig) loginClaims() []string {
	if claim := strings.TrimSpace(c.LoginClaim); claim != "" {
		return []string{claim}
	}
	return loginClaimOrder
}

// Provider is a ports.AuthProvider for the authorization code flow.
type Provider struct {
	oauth       oauth2.Config
	client      *http.Client
	discovered  *gooidc.Provider
	verifier    *gooidc.IDTokenVerifier
	loginClaims []string
	wantIDToken bool
}

// NewProvider fetches the issuer's discovery document and builds a provider from it.
func NewProvider(cfg ProviderConfig) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: discoveryTimeout}
	}

	ctx, cancel := context.WithTimeout(gooidc.ClientContext(context.Background(), client), discoveryTimeout)
	defer cancel()
	discovered, err := gooidc.NewProvider(ctx, cfg.issuer())
	if err != nil {
		return nil, fmt.Errorf("oidc discovery for %s: %w", cfg.issuer(), err)
	}

	scopes := strings.Fields(cfg.Scope)
	return &Provider{
		oauth: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     discovered.Endpoint(),
		},
		client:      client,
		discovered:  discovered,
		verifier:    discovered.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		loginClaims: cfg.loginClaims(),
		wantIDToken: slices.Contains(scopes, gooidc.ScopeOpenID),
	}, nil
}

// Begin builds the IdP authorization URL. The IdP always gets the registered
// RedirectURL; in.RedirectURL only has to be present.
func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	state, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate state: %w", err)
	}
	nonce, err := randomToken()
	if err != nil {
		return "", "", "", fmt.Errorf("generate nonce: %w", err)
	}

	u := p.oauth.AuthCodeURL(state,
		gooidc.Nonce(nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
	return u, state, nonce, nil
}

// Exchange redeems the code. Claims come from the verified ID token when the
// openid scope was requested; userinfo fills in whatever is still missing.
func (p *Provider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	switch {
	case in.Code == "":
		return domainauth.Identity{}, errors.New("authorization code is required")
	case in.State == "":
		return domainauth.Identity{}, errors.New("state is required")
	case in.Nonce == "":
		return domainauth.Identity{}, errors.New("nonce is required")
	}

	ctx = gooidc.ClientContext(ctx, p.client)
	tok, err := p.oauth.Exchange(ctx, in.Code)
	if err != nil {
		return domainauth.Identity{}, fmt.Errorf("exchange code for token: %w", err)
	}

	var prof profile
	if p.wantIDToken {
		if prof, err = p.verifiedProfile(ctx, tok, in.Nonce); err != nil {
			return domainauth.Identity{}, err
		}
	}
	if !prof.complete(p.loginClaims) {
		info, infoErr := p.userInfo(ctx, tok)
		if infoErr != nil {
			return domainauth.Identity{}, infoErr
		}
		prof = prof.fillFrom(info)
	}

	login := prof.login(p.loginClaims)
	if login == "" {
		return domainauth.Identity{}, fmt.Errorf("no login claim among %v", p.loginClaims)
	}

	expiresAt := tok.Expiry
	if expiresAt.IsZero() {
		expiresAt = time.Now().Add(fallbackTokenTTL)
	}
	return domainauth.Identity{
		UserID:    login,
		FirstName: prof.givenName(),
		LastName:  prof.familyName(),
		Email:     prof.email(),
		Groups:    prof.groups(),
		ExpiresAt: expiresAt,
	}, nil
}

func (p *Provider) verifiedProfile(ctx context.Context, tok *oauth2.Token, nonce string) (profile, error) {
	raw, err := rawIDToken(tok)
	if err != nil {
		return profile{}, err
	}
	idTok, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return profile{}, fmt.Errorf("verify id_token: %w", err)
	}
	if idTok.Nonce != nonce {
		return profile{}, errors.New("id_token nonce does not match")
	}
	var prof profile
	if err = idTok.Claims(&prof); err != nil {
		return profile{}, fmt.Errorf("decode id_token claims: %w", err)
	}
	return prof, nil
}

func (p *Provider) userInfo(ctx context.Context, tok *oauth2.Token) (profile, error) {
	info, err := p.discovered.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return profile{}, fmt.Errorf("fetch userinfo: %w", err)
	}
	var prof profile
	if err = info.Claims(&prof); err != nil {
		return profile{}, fmt.Errorf("decode userinfo claims: %w", err)
	}
	return prof, nil
}

func rawIDToken(tok *oauth2.Token) (string, error) {
	if tok == nil {
		return "", errNoIDToken
	}
	raw, _ := tok.Extra("id_token").(string)
	if raw == "" {
		return "", errNoIDToken
	}
	return raw, nil
}

// randomToken returns 32 hex characters from crypto/rand.
func randomToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

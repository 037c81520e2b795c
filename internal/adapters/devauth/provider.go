// Package devauth signs everyone in as one configured user. The browser never
// leaves the app: Begin sends it straight back to the callback with a fixed code.
package devauth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/ports"
)

// Code is the authorization code Begin puts on the callback URL.
const Code = "dev"

const defaultSessionTTL = 8 * time.Hour

var (
	ErrUnknownState  = errors.New("dev auth: unknown or already used state")
	ErrNonceMismatch = errors.New("dev auth: nonce mismatch")
	ErrBadCode       = errors.New("dev auth: unexpected authorization code")
)

// Config describes the identity handed out on every login.
type Config struct {
	UserID          string
	Email           string
	FirstName       string
	LastName        string
	Groups          []string
	SessionDuration time.Duration
}

func (c Config) validate() error {
	if c.UserID == "" {
		return errors.New("dev auth: UserID is required")
	}
	if c.Email == "" {
		return errors.New("dev auth: Email is required")
	}
	return nil
}

// Provider is a ports.AuthProvider without an identity provider behind it. Each
// state it issues can be exchanged once, with the nonce issued alongside it.
type Provider struct {
	cfg Config
	now func() time.Time

	mu      sync.Mutex
	pending map[string]string // state -> nonce
}

func NewProvider(cfg Config) (*Provider, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = defaultSessionTTL
	}
	cfg.Groups = append([]string(nil), cfg.Groups...)
	return &Provider{cfg: cfg, now: time.Now, pending: make(map[string]string)}, nil
}

func (p *Provider) Begin(_ context.Context, in ports.BeginInput) (string, string, string, error) {
	if in.RedirectURL == "" {
		return "", "", "", errors.New("redirect URL is required")
	}
	callback, err := url.Parse(in.RedirectURL)
	if err != nil {
		return "", "", "", fmt.Errorf("parse redirect URL: %w", err)
	}

	var buf [24]byte
	if _, err = rand.Read(buf[:]); err != nil {
		return "", "", "", fmt.Errorf("read random: %w", err)
	}
	state, nonce := hex.EncodeToString(buf[:12]), hex.EncodeToString(buf[12:])

	p.mu.Lock()
	p.pending[state] = nonce
	p.mu.Unlock()

	q := callback.Query()
	q.Set("code", Code)
	q.Set("state", state)
	callback.RawQuery = q.Encode()
	return callback.String(), state, nonce, nil
}

// Exchange consumes a state issued by Begin and returns the configured identity.
func (p *Provider) Exchange(_ context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	if in.Code != Code {
		return domainauth.Identity{}, ErrBadCode
	}

	p.mu.Lock()
	nonce, ok := p.pending[in.State]
	delete(p.pending, in.State)
	p.mu.Unlock()

	switch {
	case !ok:
		return domainauth.Identity{}, ErrUnknownState
	case nonce != in.Nonce:
		return domainauth.Identity{}, ErrNonceMismatch
	}

	return domainauth.Identity{
		UserID:    p.cfg.UserID,
		FirstName: p.cfg.FirstName,
		LastName:  p.cfg.LastName,
		Email:     p.cfg.Email,
		Groups:    append([]string(nil), p.cfg.Groups...),
		ExpiresAt: p.now().Add(p.cfg.SessionDuration),
	}, nil
}

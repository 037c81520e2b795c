// Package auth holds hand-written in-memory doubles for the auth and user ports.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/target/gatehouse/internal/domain/auth"
	"github.com/target/gatehouse/internal/ports"
)

var (
	_ ports.AuthProvider = (*MockAuthProvider)(nil)
	_ ports.SessionStore = (*MemorySessionStore)(nil)
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("not found")

const defaultMockAuthURL = "https://mock-idp/auth"

func defaultIdentity() domainauth.Identity {
	return domainauth.Identity{
		UserID:    "mock-user-1",
		FirstName: "Mock",
		LastName:  "User",
		Email:     "mock.user@example.com",
		Groups:    []string{"users"},
	}
}

// MockAuthProvider stands in for an identity provider.
// Without overrides, the n-th Begin yields "state-n" and "nonce-n", and Exchange
// signs in DefaultUser. It records every callback URL it was asked to begin with.
type MockAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error)

	AuthURL     string
	StatePrefix string
	NoncePrefix string
	DefaultUser domainauth.Identity

	mu        sync.Mutex
	begins    int
	redirects []string
	exchanges []ports.ExchangeInput
}

// NewMockAuthProvider returns a provider that signs everyone in as mock-user-1.
func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		AuthURL:     defaultMockAuthURL,
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultUser: defaultIdentity(),
	}
}

func (m *MockAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	m.mu.Lock()
	m.redirects = append(m.redirects, in.RedirectURL)
	m.begins++
	n := m.begins
	m.mu.Unlock()

	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	authURL := or(m.AuthURL, defaultMockAuthURL)
	state := fmt.Sprintf("%s-%d", or(m.StatePrefix, "state"), n)
	nonce := fmt.Sprintf("%s-%d", or(m.NoncePrefix, "nonce"), n)
	return authURL, state, nonce, nil
}

func (m *MockAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.Identity, error) {
	m.mu.Lock()
	m.exchanges = append(m.exchanges, in)
	m.mu.Unlock()

	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}

	id := m.DefaultUser
	if id.UserID == "" {
		id = defaultIdentity()
	}
	id.ExpiresAt = time.Now().Add(time.Hour)
	return id, nil
}

// Redirects lists the callback URLs passed to Begin, oldest first.
func (m *MockAuthProvider) Redirects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.redirects...)
}

// Exchanges lists the inputs passed to Exchange, oldest first.
func (m *MockAuthProvider) Exchanges() []ports.ExchangeInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ExchangeInput(nil), m.exchanges...)
}

func or(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// MemorySessionStore keeps sessions in a map. Expired sessions read as ErrNotFound,
// mirroring the TTL the redis store puts on its keys.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domainauth.Session),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Save(_ context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (domainauth.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || s.expired(sess) {
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// DeleteByLogin drops every session of login and reports how many were still live.
func (s *MemorySessionStore) DeleteByLogin(_ context.Context, login string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.Login() != login {
			continue
		}
		if !s.expired(sess) {
			n++
		}
		delete(s.sessions, id)
	}
	return n, nil
}

// Len counts stored sessions, expired or not.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SetClock replaces the time source used for expiry checks.
func (s *MemorySessionStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// A zero ExpiresAt never expires.
func (s *MemorySessionStore) expired(sess domainauth.Session) bool {
	return !sess.ExpiresAt.IsZero() && !s.now().Before(sess.ExpiresAt)
}

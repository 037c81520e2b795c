package auth

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/target/gatehouse/internal/data"
	"github.com/target/gatehouse/internal/domain/model"
	"github.com/target/gatehouse/internal/ports"
)

var (
	_ ports.UserRepository      = (*MemoryUserRepository)(nil)
	_ ports.UserTokenRepository = (*MemoryUserTokenRepository)(nil)
)

// MemoryUserRepository mirrors data.UserRepo in memory, including the first-user-is-root rule
// and the last-root check. It is safe for concurrent use.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]model.User
}

// NewMemoryUserRepository creates an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]model.User)}
}

// Put stores u as given, bypassing the first-user rule.
func (m *MemoryUserRepository) Put(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.Login] = u
}

func (m *MemoryUserRepository) GetByLogin(_ context.Context, login string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok {
		return nil, data.ErrUserNotFound
	}
	return &u, nil
}

func (m *MemoryUserRepository) Upsert(_ context.Context, req model.UpsertUserRequest) (*model.UpsertUserResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u, ok := m.users[req.Login]
	if !ok {
		u = model.User{Login: req.Login, Active: true, IsRoot: len(m.users) == 0, CreatedAt: now}
	}
	u.Name = strings.TrimSpace(req.Name)
	u.Email = strings.TrimSpace(req.Email)
	u.UpdatedAt = now
	m.users[req.Login] = u
	return &model.UpsertUserResult{User: u, Created: !ok}, nil
}

func (m *MemoryUserRepository) ListRoots(_ context.Context) ([]*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.User
	for _, u := range m.users {
		if u.IsRoot && u.Active {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Login < out[j].Login })
	return out, nil
}

func (m *MemoryUserRepository) SetRoot(_ context.Context, login string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[login]
	if !ok || !u.Active {
		return data.ErrUserNotFound
	}
	u.IsRoot = true
	m.users[login] = u
	return nil
}

func (m *MemoryUserRepository) UnsetRootUnlessLast(_ context.Context, login string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	others := 0
	for l, u := range m.users {
		if l != login && u.IsRoot && u.Active {
			others++
		}
	}
	if others == 0 {
		return data.ErrLastRoot
	}
	if u, ok := m.users[login]; ok {
		u.IsRoot = false
		m.users[login] = u
	}
	return nil
}

// MemoryUserTokenRepository mirrors data.UserTokenRepo in memory.
type MemoryUserTokenRepository struct {
	mu     sync.Mutex
	tokens []model.UserToken
}

// NewMemoryUserTokenRepository creates an empty repository.
func NewMemoryUserTokenRepository() *MemoryUserTokenRepository {
	return &MemoryUserTokenRepository{}
}

func (m *MemoryUserTokenRepository) Create(_ context.Context, token *model.UserToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens {
		if t.Login == token.Login && t.Name == token.Name {
			return data.ErrUserTokenExists
		}
	}
	token.ID = uuid.NewString()
	token.CreatedAt = time.Now().UTC()
	m.tokens = append(m.tokens, *token)
	return nil
}

func (m *MemoryUserTokenRepository) DeleteByName(_ context.Context, login, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, t := range m.tokens {
		if t.Login == login && t.Name == name {
			m.tokens = append(m.tokens[:i], m.tokens[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryUserTokenRepository) ListByLogin(_ context.Context, login string) ([]*model.UserToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.UserToken
	for _, t := range m.tokens {
		if t.Login == login {
			out = append(out, &t)
		}
	}
	return out, nil
}

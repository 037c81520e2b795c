// Package redis stores login sessions in Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	domainauth "github.com/target/gatehouse/internal/domain/auth"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "gatehouse:"

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// SessionStore keeps sessions as JSON values that expire with the session, plus a per-login
// index sorted by expiry so every session of one user can be revoked at once.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// NewSessionStore creates a session store using DefaultPrefix.
func NewSessionStore(client redis.UniversalClient) *SessionStore {
	return NewSessionStoreWithPrefix(client, DefaultPrefix)
}

// NewSessionStoreWithPrefix creates a session store with a custom key prefix.
func NewSessionStoreWithPrefix(client redis.UniversalClient, prefix string) *SessionStore {
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) sessionKey(id string) string { return s.prefix + "session:" + id }

func (s *SessionStore) indexKey(login string) string { return s.prefix + "user_sessions:" + login }

// Save stores sess until its ExpiresAt.
func (s *SessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	idx := s.indexKey(sess.Login())
	now := strconv.FormatInt(time.Now().Unix(), 10)
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, s.sessionKey(sess.ID), data, ttl)
		p.ZRemRangeByScore(ctx, idx, "-inf", now)
		p.ZAdd(ctx, idx, redis.Z{Score: float64(sess.ExpiresAt.Unix()), Member: sess.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

// Get returns the session with id, or ErrNotFound.
func (s *SessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if id == "" {
		return domainauth.Session{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domainauth.Session{}, ErrNotFound
	}
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err = json.Unmarshal(data, &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// Redis TTLs have second granularity on some servers; ExpiresAt is authoritative.
	if time.Now().After(sess.ExpiresAt) {
		if err = s.Delete(ctx, id); err != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", err)
		}
		return domainauth.Session{}, ErrNotFound
	}
	return sess, nil
}

// Delete removes one session. Deleting an unknown id is not an error.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}

	key := s.sessionKey(id)
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if json.Unmarshal(data, &sess) != nil || sess.Login() == "" {
		return s.client.Del(ctx, key).Err()
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.ZRem(ctx, s.indexKey(sess.Login()), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

// DeleteByLogin removes every session of login and returns how many were still live.
func (s *SessionStore) DeleteByLogin(ctx context.Context, login string) (int, error) {
	if login == "" {
		return 0, nil
	}

	idx := s.indexKey(login)
	ids, err := s.client.ZRange(ctx, idx, 0, -1).Result()
	if err != nil {
		return 0, fmt.Errorf("redis list sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	// One DEL per key: session keys hash to different cluster slots.
	dels := make([]*redis.IntCmd, 0, len(ids))
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, id := range ids {
			dels = append(dels, p.Del(ctx, s.sessionKey(id)))
		}
		p.Del(ctx, idx)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis delete sessions: %w", err)
	}
	live := 0
	for _, d := range dels {
		live += int(d.Val())
	}
	return live, nil
}

package identity

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned for unknown or revoked session tokens.
var ErrSessionNotFound = errors.New("session not found")

// Session is an authenticated sign-in on one context.
type Session struct {
	Token      string    `json:"token"`
	IdentityID string    `json:"identityId"`
	Email      string    `json:"email"`
	IssuedAt   time.Time `json:"issuedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// SessionStore persists active sessions. The store chosen at context
// construction is the context's persistence mode: redis for persistent
// contexts, memory for ephemeral (shadow) ones.
type SessionStore interface {
	Put(ctx context.Context, session Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
}

const sessionKeyPrefix = "session:"

type redisSessions struct {
	client *redis.Client
}

// NewRedisSessions returns a redis-backed persistent session store.
func NewRedisSessions(client *redis.Client) SessionStore {
	return &redisSessions{client: client}
}

func (s *redisSessions) Put(ctx context.Context, session Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}
	return s.client.Set(ctx, sessionKeyPrefix+session.Token, raw, ttl).Err()
}

func (s *redisSessions) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := s.client.Get(ctx, sessionKeyPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *redisSessions) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, sessionKeyPrefix+token).Err()
}

type memorySessions struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemorySessions returns a session store with no persistence; a
// process restart or context teardown discards every session in it.
func NewMemorySessions() SessionStore {
	return &memorySessions{sessions: make(map[string]Session)}
}

func (s *memorySessions) Put(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = session
	return nil
}

func (s *memorySessions) Get(_ context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[token]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *memorySessions) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Session represents an admin session issued at login. Each login gets
// its own record; issuing a new session never invalidates existing ones.
type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionStore manages active admin sessions keyed by token.
type SessionStore interface {
	Create(ctx context.Context, ipAddress string, expiry time.Duration) (*Session, error)
	Get(ctx context.Context, token string) (*Session, bool)
	Invalidate(ctx context.Context, token string)
}

// NewToken returns a URL-safe opaque token.
func NewToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// MemorySessionStore keeps sessions in a process-local map.
type MemorySessionStore struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
	}
}

func (ss *MemorySessionStore) Create(_ context.Context, ipAddress string, expiry time.Duration) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()

	session := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(expiry),
	}
	ss.sessions[token] = session
	return session, nil
}

func (ss *MemorySessionStore) Get(_ context.Context, token string) (*Session, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	session, exists := ss.sessions[token]
	if !exists {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		// Reap on lookup so stale entries don't accumulate for the
		// process lifetime. Admin traffic is far too light to need a
		// background sweep.
		delete(ss.sessions, token)
		return nil, false
	}
	return session, true
}

func (ss *MemorySessionStore) Invalidate(_ context.Context, token string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.sessions, token)
}

// RedisSessionStore persists sessions in redis so they survive restarts
// and are shared across replicas. Expiry is enforced by redis TTL.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisSessionStore creates a session store backed by the given client.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, prefix: "calhub:session:"}
}

func (ss *RedisSessionStore) Create(ctx context.Context, ipAddress string, expiry time.Duration) (*Session, error) {
	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID:        uuid.New().String(),
		Token:     token,
		IPAddress: ipAddress,
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(expiry),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, err
	}
	if err := ss.client.Set(ctx, ss.prefix+token, data, expiry).Err(); err != nil {
		return nil, err
	}
	return session, nil
}

func (ss *RedisSessionStore) Get(ctx context.Context, token string) (*Session, bool) {
	data, err := ss.client.Get(ctx, ss.prefix+token).Bytes()
	if err != nil {
		return nil, false
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return &session, true
}

func (ss *RedisSessionStore) Invalidate(ctx context.Context, token string) {
	ss.client.Del(ctx, ss.prefix+token)
}

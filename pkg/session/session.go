// Package session stores charts created through the HTTP API.
//
// A session holds the rows and options of one chart between requests;
// rendering always happens on demand from that state. Backends:
//   - [MemoryStore]: single-process servers and tests
//   - [FileStore]: local servers that should survive restarts
//   - [RedisStore]: multi-instance deployments
//
// # Usage
//
//	store := session.NewMemoryStore()
//	sess := session.New(rows, opts, session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // not found or expired
//	}
package session

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/waterfall/pkg/scene"
	"github.com/matzehuels/waterfall/pkg/waterfall"
)

// ErrExpired is returned when a session has exceeded its TTL.
var ErrExpired = errors.New("expired")

// Session is the stored state of one chart.
type Session struct {
	ID        string              `json:"id"`
	Data      []waterfall.RawItem `json:"data"`
	Options   waterfall.Options   `json:"options"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	ExpiresAt time.Time           `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
// A zero ExpiresAt never expires.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Touch replaces the chart state and extends the expiry by ttl.
func (s *Session) Touch(data []waterfall.RawItem, opts waterfall.Options, ttl time.Duration) {
	now := time.Now()
	s.Data, s.Options, s.UpdatedAt = data, opts, now
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be no-op for Redis).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is the default session lifetime.
const DefaultTTL = 24 * time.Hour

// New creates a session with a fresh surface id.
func New(data []waterfall.RawItem, opts waterfall.Options, ttl time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:        scene.NewID(),
		Data:      data,
		Options:   opts,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// Package session stores glycan editing sessions.
//
// A session is a document under edit together with its lifetime. The HTTP
// host keeps live editors in memory and writes the document back to a
// [Store] after every committed change, so a restarted host can resume any
// session that has not yet expired.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, for tests and single-instance hosts
//   - [FileStore]: one JSON file per session, for the CLI
//   - [RedisStore]: shared between host instances, expiry handled by Redis
//
// # Usage
//
//	sess := session.New(graph.FromTree(tree), session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/glycodraw/pkg/graph"
)

// DefaultTTL is how long an untouched session survives.
const DefaultTTL = 24 * time.Hour

// Session is one editing session.
type Session struct {
	ID        string       `json:"id"`
	Name      string       `json:"name,omitempty"`
	Document  graph.Glycan `json:"document"`
	Revision  int          `json:"revision"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// New starts a session for doc that expires after ttl.
func New(doc graph.Glycan, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		Name:      doc.Name,
		Document:  doc,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session outlived its TTL.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Update replaces the document, bumps the revision and pushes the expiry
// ttl into the future.
func (s *Session) Update(doc graph.Glycan, ttl time.Duration) {
	now := time.Now().UTC()
	s.Document = doc
	s.Revision++
	s.UpdatedAt = now
	s.ExpiresAt = now.Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the session, or nil, nil when it is unknown or expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set creates or replaces a session.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Unknown IDs are not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions. It may be a no-op for backends with
	// native expiry.
	Cleanup(ctx context.Context) error

	Close() error
}

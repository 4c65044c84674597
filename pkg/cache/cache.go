// Package cache provides content-addressed caching for layouts and rendered
// artifacts.
//
// Keys are derived from the SHA-256 of the serialized glycan document (or
// layout) plus the options that influence the output, so identical requests
// from the CLI and the HTTP host share entries.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: entries as JSON files under a directory, for the CLI
//   - [RedisCache]: entries in Redis, for the HTTP host
//   - [NullCache]: stores nothing, for tests and --no-cache
package cache

import (
	"context"
	"time"
)

// Default time-to-live per entry type.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A zero ttl on Set stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// LayoutKeyOpts holds the options that change a computed layout.
type LayoutKeyOpts struct {
	VizType    string  `json:"viz_type"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	SymbolSize float64 `json:"symbol_size"`
}

// ArtifactKeyOpts holds the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Scale      float64 `json:"scale,omitempty"`
	Background string  `json:"background,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	LayoutKey(docHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces keys of the form "layout:<sha256>" and
// "artifact:<sha256>".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

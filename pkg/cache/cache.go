// Package cache stores compiled .trb artifacts keyed by their input.
//
// Compiling a document is deterministic, so the output for a given input
// and envelope never changes. The pipeline hashes each input document and
// looks the artifact up before decoding it again.
//
// # Backends
//
//   - [FileCache]: one JSON entry per key under a local directory, used by
//     the CLI (~/.cache/trbgen by default)
//   - [RedisCache]: a shared Redis instance, for build machines converting
//     the same map set repeatedly
//   - [NullCache]: never stores anything (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys from the input hash and every setting that changes
// the output bytes. [ScopedKeyer] prefixes keys so several projects can
// share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
//
// Get reports a miss with ok == false and a nil error. Implementations must
// be safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey returns the key of the compiled output for an input whose
	// content hash is inputHash.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts holds everything besides the input bytes that affects a
// compiled artifact.
type ArtifactKeyOpts struct {
	Format      string    `json:"format"`
	FileSize    uint32    `json:"file_size"`
	HeaderWords [4]uint32 `json:"header_words"`
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "trb:<sha256>" over the input hash and opts.
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey("trb", inputHash, opts)
}

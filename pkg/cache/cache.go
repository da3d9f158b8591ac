// Package cache provides pluggable caching for the chart pipeline.
//
// Three backends are included: a file cache for CLI usage, a Redis cache
// for server deployments, and a null cache that disables caching. All of
// them store opaque bytes under string keys with optional expiration.
//
// Keys are produced by a [Keyer] so that every pipeline stage hashes its
// inputs the same way everywhere. Because keys are content-addressed, a
// stale entry can only mean wasted space, never a wrong chart.
package cache

import (
	"context"
	"time"
)

// TTLs for each pipeline stage. Dataset and allocation entries are keyed
// by content hashes, so they stay valid indefinitely; the TTLs just bound
// disk usage. Artifacts are the largest entries and expire soonest.
const (
	TTLDataset    = 7 * 24 * time.Hour
	TTLAllocation = 7 * 24 * time.Hour
	TTLArtifact   = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// A non-nil error means the backend itself failed; callers usually treat
// that the same as a miss and recompute.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

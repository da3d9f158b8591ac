package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation. The
// server uses it to keep stored datasets from colliding with one-shot
// chart requests in a shared Redis instance.
//
// Example usage:
//
//	// Keys for a stored dataset
//	dsKeyer := NewScopedKeyer(NewDefaultKeyer(), "ds:"+id+":")
//
//	// Global keys for ad-hoc charts
//	globalKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// DatasetKey generates a prefixed key for parsed dataset caching.
func (k *ScopedKeyer) DatasetKey(sourceHash string) string {
	return k.prefix + k.inner.DatasetKey(sourceHash)
}

// AllocationKey generates a prefixed key for allocation caching.
func (k *ScopedKeyer) AllocationKey(datasetHash string, opts AllocationKeyOpts) string {
	return k.prefix + k.inner.AllocationKey(datasetHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(allocationHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(allocationHash, opts)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix for per-account isolation.
// Different mail accounts sharing one cache backend need separate
// namespaces so one inbox's diagrams never leak into another's.
//
// Example usage:
//
//	// Account-specific keys
//	accountKeyer := NewScopedKeyer(NewDefaultKeyer(), "acct:me@example.com:")
//
//	// Shared keys
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// DiagramKey generates a prefixed key for diagram artifact caching.
func (k *ScopedKeyer) DiagramKey(contentHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(contentHash, opts)
}

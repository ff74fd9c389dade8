package cache

// ScopedKeyer wraps a Keyer with a prefix so that several callers can share
// one backend without colliding. The HTTP endpoint scopes its keys so that
// a Redis instance can also serve other tools.
//
//	serveKeyer := NewScopedKeyer(NewDefaultKeyer(), "voxgen:serve:")
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

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(inputHash, opts)
}

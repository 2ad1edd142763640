package cache

// ScopedKeyer wraps a Keyer with a prefix, giving callers such as the HTTP
// server their own namespace in a shared store.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:")
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

// RenderKey generates a prefixed render key.
func (k *ScopedKeyer) RenderKey(opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(opts)
}

// ManifestKey generates a prefixed manifest key.
func (k *ScopedKeyer) ManifestKey(opts RenderKeyOpts) string {
	return k.prefix + k.inner.ManifestKey(opts)
}

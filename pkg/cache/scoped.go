package cache

// ScopedKeyer wraps a Keyer with a prefix so that several tenants (server
// instances, test runs) can share one backend without colliding.
//
// Example usage:
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:"+instanceID+":")
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

// ResponseKey generates a prefixed response key.
func (k *ScopedKeyer) ResponseKey(namespace, key string) string {
	return k.prefix + k.inner.ResponseKey(namespace, key)
}

// FixtureKey generates a prefixed fixture key.
func (k *ScopedKeyer) FixtureKey(sourceHash string) string {
	return k.prefix + k.inner.FixtureKey(sourceHash)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(fixtureHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(fixtureHash, opts)
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

package cache

// ScopedKeyer prefixes every key of an inner Keyer. Deployments that share
// one Redis use distinct prefixes:
//
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or a DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// HTTPKey prefixes the inner HTTP key.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// LayoutKey prefixes the inner layout key.
func (k *ScopedKeyer) LayoutKey(atlasHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(atlasHash, opts)
}

// RouteKey prefixes the inner route key.
func (k *ScopedKeyer) RouteKey(atlasHash string, opts RouteKeyOpts) string {
	return k.prefix + k.inner.RouteKey(atlasHash, opts)
}

// ArtifactKey prefixes the inner artifact key.
func (k *ScopedKeyer) ArtifactKey(sourceHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sourceHash, opts)
}

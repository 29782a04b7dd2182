package cache

// ScopedKeyer wraps a Keyer with a prefix. The CLI scopes keys by build
// version so that an upgraded binary never reuses point sets produced by
// an older relaxation.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "v1.2.0:")
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

// PointsKey generates a prefixed key for point set caching.
func (k *ScopedKeyer) PointsKey(imageHash string, opts PointsKeyOpts) string {
	return k.prefix + k.inner.PointsKey(imageHash, opts)
}

package cache

// ScopedKeyer wraps a Keyer with a prefix so that several corpora or
// deployments can share one Redis instance without colliding.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "ewt:")
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

// AnalysisKey generates a prefixed analysis key.
func (k *ScopedKeyer) AnalysisKey(annotationHash string, opts AnalysisKeyOpts) string {
	return k.prefix + k.inner.AnalysisKey(annotationHash, opts)
}

// BoundKey generates a prefixed bound key.
func (k *ScopedKeyer) BoundKey(annotationHash string) string {
	return k.prefix + k.inner.BoundKey(annotationHash)
}

package cache

// ArtifactKeyOpts are the render inputs besides the data that change the
// produced bytes.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Options any     `json:"options"`
	Scale   float64 `json:"scale,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// ArtifactKey identifies a rendered chart by the hash of its rows.
	ArtifactKey(dataHash string, opts ArtifactKeyOpts) string
	// SessionKey identifies a stored chart session.
	SessionKey(id string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>" over the data hash and options.
func (DefaultKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", dataHash, opts)
}

// SessionKey returns "session:<id>".
func (DefaultKeyer) SessionKey(id string) string {
	return "session:" + id
}

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
//
//	tenant := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "tenant:acme:")
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
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(dataHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(dataHash, opts)
}

// SessionKey generates a prefixed session key.
func (k *ScopedKeyer) SessionKey(id string) string {
	return k.prefix + k.inner.SessionKey(id)
}

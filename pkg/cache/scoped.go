package cache

import "strings"

// ScopedKeyer prefixes every key of an inner Keyer, so that the CLI and the
// HTTP API can share one Redis or Badger backend without reading each
// other's results. keyType ignores the prefix, so metrics still group by
// result kind.
type ScopedKeyer struct {
	inner Keyer
	scope string
}

// NewScopedKeyer scopes inner (DefaultKeyer when nil) under scope. A missing
// trailing colon is added.
func NewScopedKeyer(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if scope != "" && !strings.HasSuffix(scope, ":") {
		scope += ":"
	}
	return &ScopedKeyer{inner: inner, scope: scope}
}

func (k *ScopedKeyer) CountKey(opts CountKeyOpts) string {
	return k.scope + k.inner.CountKey(opts)
}

func (k *ScopedKeyer) ClassesKey(opts ClassesKeyOpts) string {
	return k.scope + k.inner.ClassesKey(opts)
}

package cache

// WithScope namespaces every key produced by inner under scope, so that
// several tools or deployments can share one Redis database. A nil inner
// means the DefaultKeyer; an empty scope returns inner unchanged.
//
//	keyer := cache.WithScope(nil, "fixturefit")
//	keyer.LayoutKey("42") // "fixturefit:layout:42"
func WithScope(inner Keyer, scope string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	if scope == "" {
		return inner
	}
	return scopedKeyer{inner: inner, prefix: scope + ":"}
}

type scopedKeyer struct {
	inner  Keyer
	prefix string
}

func (k scopedKeyer) SearchKey(catalogHash string, params any) string {
	return k.prefix + k.inner.SearchKey(catalogHash, params)
}

func (k scopedKeyer) LayoutKey(id string) string {
	return k.prefix + k.inner.LayoutKey(id)
}

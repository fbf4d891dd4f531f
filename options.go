package cachekit

// CallOption adjusts a single store call. Options are explicit rather than
// sniffed from trailing arguments; a call with none behaves like an empty
// options set.
type CallOption func(*callOptions)

type callOptions struct {
	// ttl is nil when the caller supplied no per-call expiry. A non-nil
	// pointer wins over the store default even when it points at zero.
	ttl *int64
	raw bool
}

// WithTTL sets the expiry, in seconds, for this write. An explicit value
// always overrides the store's DefaultTTL, including WithTTL(0), which means
// "no expiry".
func WithTTL(seconds int64) CallOption {
	return func(o *callOptions) { o.ttl = &seconds }
}

// WithRawValues makes Get/MGet return the stored payload strings without
// decoding them. Writes are unaffected.
func WithRawValues() CallOption {
	return func(o *callOptions) { o.raw = true }
}

func applyCallOptions(opts []CallOption) callOptions {
	var o callOptions
	for _, fn := range opts {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

// effectiveTTL resolves the expiry for a write: the per-call value when one
// was supplied (zero included), else the store default. Values <= 0 mean
// "no expiry" everywhere downstream.
func (s *store) effectiveTTL(o callOptions) int64 {
	if o.ttl != nil {
		return *o.ttl
	}
	return s.defaultTTL
}

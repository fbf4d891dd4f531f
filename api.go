package cachekit

import (
	"context"

	c "github.com/unkn0wn-root/cachekit/codec"
	eng "github.com/unkn0wn-root/cachekit/engine"
)

// CacheablePredicate decides whether a value may be written. Values failing
// the predicate are rejected with NotCacheableError before any engine call.
type CacheablePredicate func(v any) bool

// Store is the uniform caching contract layered over a raw key-value Engine.
// All operations report completion synchronously; use the async subpackage
// for callback-style delivery.
type Store interface {
	// Get returns the decoded value for key. ok=false marks a miss; a stored
	// JSON null comes back as (nil, true, nil). WithRawValues returns the
	// stored payload string undecoded.
	Get(ctx context.Context, key string, opts ...CallOption) (v any, ok bool, err error)

	// Set encodes value and writes it under key, with expiry per WithTTL /
	// the store default.
	Set(ctx context.Context, key string, value any, opts ...CallOption) error

	// Del removes keys and returns how many were removed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// MGet bulk-reads keys, order-preserving. Missing keys yield nil slots;
	// present keys follow the same decode rule as Get.
	MGet(ctx context.Context, keys []string, opts ...CallOption) ([]any, error)

	// MSet writes a flat alternating key/value list ("k1", v1, "k2", v2, ...).
	// Every value must be cacheable or the whole call rejects before any
	// write. One expiry applies to the entire batch: with a TTL the pairs are
	// queued as expiring writes in one atomic engine batch, without one a
	// single bulk set is issued.
	MSet(ctx context.Context, args []any, opts ...CallOption) error

	// MDel flattens the key groups into one list and bulk-deletes it.
	MDel(ctx context.Context, groups ...[]string) (int64, error)

	// Keys enumerates keys matching a glob pattern; "" means "*".
	Keys(ctx context.Context, pattern string) ([]string, error)

	// TTL reports the remaining expiry in seconds, or the engine sentinels
	// engine.TTLNone / engine.TTLMissing, passed through unchanged.
	TTL(ctx context.Context, key string) (int64, error)

	// Reset flushes the underlying engine. Irreversible; removes every key
	// regardless of origin.
	Reset(ctx context.Context) error

	// Engine exposes the underlying key-value engine handle.
	Engine() eng.Engine

	// IsCacheable exposes the active cacheability predicate.
	IsCacheable(v any) bool

	// Close releases the engine.
	Close(ctx context.Context) error
}

// Options configure a Store at construction; the record is immutable for the
// store's lifetime. Only Engine is required.
type Options struct {
	// Required.
	Engine eng.Engine

	Codec  c.Codec // nil => codec.JSON{}
	Logger Logger  // nil => NopLogger

	// DefaultTTL is the expiry, in seconds, applied to writes that carry no
	// per-call TTL. 0 means entries do not expire.
	DefaultTTL int64

	// IsCacheable overrides the cacheability predicate. The default rejects
	// only nil values.
	IsCacheable CacheablePredicate
}

func New(opts Options) (Store, error) {
	return newStore(opts)
}

// Package engine defines the raw key-value contract cachekit stores are
// built on.
//
// Implementations MUST be string-transparent: Get must return exactly the
// string previously passed to Set/SetEx/MSet for a key (no prepended or
// appended metadata, no re-encoding, no mutation). Absence is reported as
// ok=false (singles) or a nil slot (MGet), never as an error.
package engine

import "context"

// TTL sentinels, engine-native (redis convention). Passed through to callers
// of Engine.TTL unchanged.
const (
	// TTLNone means the key exists but carries no expiry.
	TTLNone int64 = -1
	// TTLMissing means the key does not exist.
	TTLMissing int64 = -2
)

// Engine is the minimal command set cachekit requires from a key-value
// backend. Must be safe for concurrent use.
type Engine interface {
	// Get returns (value, true, nil) on hit; ("", false, nil) on miss.
	// IO/remote errors return ("", false, err).
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value with no expiry, overwriting any previous entry.
	Set(ctx context.Context, key, value string) error

	// SetEx stores value with an expiry of the given number of seconds.
	// seconds must be > 0; the store never issues SetEx otherwise.
	SetEx(ctx context.Context, key string, seconds int64, value string) error

	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// MSet stores a flat alternating key/value list with no expiry.
	MSet(ctx context.Context, pairs ...string) error

	// MGet returns one slot per requested key, order-preserving.
	// A nil slot marks a miss.
	MGet(ctx context.Context, keys ...string) ([]*string, error)

	// Keys enumerates keys matching a glob-style pattern ("*", "?", "[...]").
	Keys(ctx context.Context, pattern string) ([]string, error)

	// TTL reports the remaining expiry in seconds, TTLNone for a key without
	// expiry, TTLMissing for an absent key.
	TTL(ctx context.Context, key string) (int64, error)

	// FlushDB removes every key. Irreversible.
	FlushDB(ctx context.Context) error

	// Batch returns a fresh command batch. Queued commands take effect only
	// on Exec, which applies them as one atomic unit.
	Batch() Batch

	// Close releases resources.
	Close(ctx context.Context) error
}

// Batch queues expiring writes for atomic execution (the engine's
// multi/exec pair). A Batch is single-shot: after Exec it must not be reused.
type Batch interface {
	SetEx(key string, seconds int64, value string)
	Exec(ctx context.Context) error
}

package cachekit

import (
	"context"
	"encoding/json"
)

// Typed is a type-safe view over a Store for a single value type. Reads pull
// the stored payload raw and decode it straight into V, so it assumes the
// store's payloads are JSON (the default codec).
type Typed[V any] struct {
	s Store
}

// As wraps a Store in a typed view.
func As[V any](s Store) Typed[V] {
	return Typed[V]{s: s}
}

func (t Typed[V]) Get(ctx context.Context, key string, opts ...CallOption) (V, bool, error) {
	var zero V
	raw, ok, err := t.s.Get(ctx, key, append(opts, WithRawValues())...)
	if err != nil || !ok {
		return zero, false, err
	}
	var v V
	if err := json.Unmarshal([]byte(raw.(string)), &v); err != nil {
		return zero, false, &DecodeError{Key: key, Err: err}
	}
	return v, true, nil
}

func (t Typed[V]) Set(ctx context.Context, key string, value V, opts ...CallOption) error {
	return t.s.Set(ctx, key, value, opts...)
}

// MGet bulk-reads keys and returns found values by key plus the keys that
// missed.
func (t Typed[V]) MGet(ctx context.Context, keys []string, opts ...CallOption) (map[string]V, []string, error) {
	slots, err := t.s.MGet(ctx, keys, append(opts, WithRawValues())...)
	if err != nil {
		return nil, nil, err
	}
	out := make(map[string]V, len(keys))
	var missing []string
	for i, slot := range slots {
		if slot == nil {
			missing = append(missing, keys[i])
			continue
		}
		var v V
		if err := json.Unmarshal([]byte(slot.(string)), &v); err != nil {
			return nil, nil, &DecodeError{Key: keys[i], Err: err}
		}
		out[keys[i]] = v
	}
	return out, missing, nil
}

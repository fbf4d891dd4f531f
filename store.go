package cachekit

import (
	"context"
	"fmt"

	c "github.com/unkn0wn-root/cachekit/codec"
	eng "github.com/unkn0wn-root/cachekit/engine"
	"github.com/unkn0wn-root/cachekit/internal/args"
)

type store struct {
	eng        eng.Engine
	codec      c.Codec
	log        Logger
	defaultTTL int64
	cacheable  CacheablePredicate
}

func newStore(opts Options) (*store, error) {
	if opts.Engine == nil {
		return nil, fmt.Errorf("cachekit: engine is required")
	}

	s := &store{
		eng:        opts.Engine,
		defaultTTL: opts.DefaultTTL,
	}

	// defaults
	s.codec = coalesce[c.Codec](opts.Codec, c.JSON{})
	s.log = coalesce[Logger](opts.Logger, NopLogger{})

	if opts.IsCacheable != nil {
		s.cacheable = opts.IsCacheable
	} else {
		s.cacheable = func(v any) bool { return v != nil }
	}
	return s, nil
}

func (s *store) Get(ctx context.Context, key string, opts ...CallOption) (any, bool, error) {
	raw, ok, err := s.eng.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	o := applyCallOptions(opts)
	if o.raw {
		return raw, true, nil
	}
	v, err := s.codec.Decode([]byte(raw))
	if err != nil {
		return nil, false, &DecodeError{Key: key, Err: err}
	}
	return v, true, nil
}

func (s *store) Set(ctx context.Context, key string, value any, opts ...CallOption) error {
	if !s.cacheable(value) {
		s.log.Debug("set rejected (value not cacheable)", Fields{"key": key})
		return &NotCacheableError{Key: key}
	}
	payload, err := s.codec.Encode(value)
	if err != nil {
		return err
	}
	if ttl := s.effectiveTTL(applyCallOptions(opts)); ttl > 0 {
		return s.eng.SetEx(ctx, key, ttl, string(payload))
	}
	return s.eng.Set(ctx, key, string(payload))
}

func (s *store) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return s.eng.Del(ctx, keys...)
}

func (s *store) MGet(ctx context.Context, keys []string, opts ...CallOption) ([]any, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	slots, err := s.eng.MGet(ctx, keys...)
	if err != nil {
		return nil, err
	}
	o := applyCallOptions(opts)
	out := make([]any, len(slots))
	for i, slot := range slots {
		if slot == nil {
			continue // miss; slot stays nil
		}
		if o.raw {
			out[i] = *slot
			continue
		}
		v, err := s.codec.Decode([]byte(*slot))
		if err != nil {
			return nil, &DecodeError{Key: keys[i], Err: err}
		}
		out[i] = v
	}
	return out, nil
}

func (s *store) MSet(ctx context.Context, list []any, opts ...CallOption) error {
	pairs, err := args.Pairs(list)
	if err != nil {
		return err
	}

	// reject the whole batch before any engine command
	for _, p := range pairs {
		if !s.cacheable(p.Value) {
			s.log.Debug("mset rejected (value not cacheable)", Fields{"key": p.Key})
			return &NotCacheableError{Key: p.Key}
		}
	}

	flat := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		payload, err := s.codec.Encode(p.Value)
		if err != nil {
			return err
		}
		flat = append(flat, p.Key, string(payload))
	}

	if ttl := s.effectiveTTL(applyCallOptions(opts)); ttl > 0 {
		// one expiry for the whole batch, applied atomically
		b := s.eng.Batch()
		for i := 0; i < len(flat); i += 2 {
			b.SetEx(flat[i], ttl, flat[i+1])
		}
		return b.Exec(ctx)
	}
	return s.eng.MSet(ctx, flat...)
}

func (s *store) MDel(ctx context.Context, groups ...[]string) (int64, error) {
	keys := args.Flatten(groups)
	if len(keys) == 0 {
		return 0, nil
	}
	return s.eng.Del(ctx, keys...)
}

func (s *store) Keys(ctx context.Context, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = "*"
	}
	return s.eng.Keys(ctx, pattern)
}

func (s *store) TTL(ctx context.Context, key string) (int64, error) {
	return s.eng.TTL(ctx, key)
}

func (s *store) Reset(ctx context.Context) error {
	s.log.Debug("flushing all keys", nil)
	return s.eng.FlushDB(ctx)
}

func (s *store) Engine() eng.Engine { return s.eng }

func (s *store) IsCacheable(v any) bool { return s.cacheable(v) }

func (s *store) Close(ctx context.Context) error {
	if s.eng != nil {
		return s.eng.Close(ctx)
	}
	return nil
}

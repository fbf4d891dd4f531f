package cachekit

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"testing"

	eng "github.com/unkn0wn-root/cachekit/engine"
	"github.com/unkn0wn-root/cachekit/engine/local"
	"github.com/unkn0wn-root/cachekit/internal/args"
)

func newTestStore(t *testing.T, optsOpt func(*Options)) (Store, *local.Local) {
	t.Helper()
	le := local.New(local.Config{})
	opts := Options{Engine: le}
	if optsOpt != nil {
		optsOpt(&opts)
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, le
}

// ==============================
// Single-key tests
// ==============================

func TestSetGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	in := map[string]any{"a": 1, "b": "two", "c": []any{true, nil}}
	if err := s.Set(ctx, "x", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, ok, err := s.Get(ctx, "x")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	// numbers come back as float64 through the JSON codec
	want := map[string]any{"a": float64(1), "b": "two", "c": []any{true, nil}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got=%#v want=%#v", got, want)
	}
}

func TestGetMiss(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if v, ok, err := s.Get(ctx, "never-written"); err != nil || ok || v != nil {
		t.Fatalf("expected miss, got v=%v ok=%v err=%v", v, ok, err)
	}
}

func TestSetRejectsNilValue(t *testing.T) {
	ctx := context.Background()
	s, le := newTestStore(t, nil)

	err := s.Set(ctx, "k", nil)
	var nce *NotCacheableError
	if !errors.As(err, &nce) || nce.Key != "k" {
		t.Fatalf("expected NotCacheableError for k, got %v", err)
	}
	// nothing reached the engine
	if ks, _ := le.Keys(ctx, "*"); len(ks) != 0 {
		t.Fatalf("no key should be created, found %v", ks)
	}
}

func TestCustomCacheablePredicate(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, func(o *Options) {
		o.IsCacheable = func(v any) bool {
			_, isString := v.(string)
			return !isString && v != nil
		}
	})

	if err := s.Set(ctx, "k", "a string"); err == nil {
		t.Fatalf("predicate override should reject strings")
	}
	if s.IsCacheable("nope") {
		t.Fatalf("IsCacheable should expose the active predicate")
	}
	if !s.IsCacheable(42) {
		t.Fatalf("IsCacheable(42) should hold under override")
	}
}

func TestDecodeErrorPropagates(t *testing.T) {
	ctx := context.Background()
	s, le := newTestStore(t, nil)

	// inject a payload that is not valid JSON directly into the engine
	if err := le.Set(ctx, "bad", "{not json"); err != nil {
		t.Fatalf("inject: %v", err)
	}

	_, _, err := s.Get(ctx, "bad")
	var de *DecodeError
	if !errors.As(err, &de) || de.Key != "bad" {
		t.Fatalf("expected DecodeError for bad, got %v", err)
	}
	// the entry is surfaced, not repaired or deleted
	if _, ok, _ := le.Get(ctx, "bad"); !ok {
		t.Fatalf("corrupt entry must not be removed")
	}
}

// ==============================
// TTL resolution tests
// ==============================

func TestExplicitTTLApplied(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.Set(ctx, "k", "v", WithTTL(10)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	ttl, err := s.TTL(ctx, "k")
	if err != nil {
		t.Fatalf("TTL: %v", err)
	}
	if ttl <= 0 || ttl > 10 {
		t.Fatalf("TTL expected in (0,10], got %d", ttl)
	}
}

func TestNoTTLMeansNoExpiry(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl, _ := s.TTL(ctx, "k"); ttl != eng.TTLNone {
		t.Fatalf("expected TTLNone, got %d", ttl)
	}
}

func TestDefaultTTLFromOptions(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, func(o *Options) { o.DefaultTTL = 60 })

	if err := s.Set(ctx, "x", map[string]any{"a": 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok, err := s.Get(ctx, "x")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, map[string]any{"a": float64(1)}) {
		t.Fatalf("unexpected value %#v", got)
	}
	if ttl, _ := s.TTL(ctx, "x"); ttl <= 0 || ttl > 60 {
		t.Fatalf("TTL expected in (0,60], got %d", ttl)
	}
}

func TestTTLZeroOverridesDefault(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, func(o *Options) { o.DefaultTTL = 60 })

	// explicit zero wins over the default and means "no expiry"
	if err := s.Set(ctx, "k", "v", WithTTL(0)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if ttl, _ := s.TTL(ctx, "k"); ttl != eng.TTLNone {
		t.Fatalf("expected TTLNone with WithTTL(0), got %d", ttl)
	}
}

func TestTTLMissingSentinel(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if ttl, err := s.TTL(ctx, "absent"); err != nil || ttl != eng.TTLMissing {
		t.Fatalf("expected TTLMissing, got ttl=%d err=%v", ttl, err)
	}
}

// ==============================
// Bulk operation tests
// ==============================

func TestMSetNoTTLAndMGetOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.MSet(ctx, []any{"a", 1, "b", 2}); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	got, err := s.MGet(ctx, []string{"a", "b", "missing"})
	if err != nil {
		t.Fatalf("MGet: %v", err)
	}
	want := []any{float64(1), float64(2), nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("MGet order/decode mismatch: got=%#v want=%#v", got, want)
	}
}

func TestMSetWithTTLWritesWholeBatch(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.MSet(ctx, []any{"k1", "v1", "k2", "v2"}, WithTTL(5)); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	got, err := s.MGet(ctx, []string{"k1", "k2"})
	if err != nil {
		t.Fatalf("MGet: %v", err)
	}
	if got[0] != "v1" || got[1] != "v2" {
		t.Fatalf("both members must be visible, got %#v", got)
	}
	for _, k := range []string{"k1", "k2"} {
		if ttl, _ := s.TTL(ctx, k); ttl <= 0 || ttl > 5 {
			t.Fatalf("TTL for %q expected in (0,5], got %d", k, ttl)
		}
	}
}

func TestMSetRejectsBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	s, le := newTestStore(t, nil)

	err := s.MSet(ctx, []any{"a", 1, "b", nil})
	var nce *NotCacheableError
	if !errors.As(err, &nce) || nce.Key != "b" {
		t.Fatalf("expected NotCacheableError for b, got %v", err)
	}
	if ks, _ := le.Keys(ctx, "*"); len(ks) != 0 {
		t.Fatalf("rejection must happen before any write, found %v", ks)
	}
}

func TestMSetBadArgumentLists(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.MSet(ctx, []any{"a", 1, "dangling"}); !errors.Is(err, args.ErrOddPairList) {
		t.Fatalf("expected ErrOddPairList, got %v", err)
	}

	err := s.MSet(ctx, []any{42, "v"})
	var bke *args.BadKeyError
	if !errors.As(err, &bke) || bke.Index != 0 {
		t.Fatalf("expected BadKeyError at 0, got %v", err)
	}
}

func TestRawValues(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.Set(ctx, "x", map[string]any{"a": 1}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	raw, ok, err := s.Get(ctx, "x", WithRawValues())
	if err != nil || !ok {
		t.Fatalf("Get raw: ok=%v err=%v", ok, err)
	}
	if raw != `{"a":1}` {
		t.Fatalf("raw get should return the stored encoding, got %q", raw)
	}

	rows, err := s.MGet(ctx, []string{"x", "missing"}, WithRawValues())
	if err != nil {
		t.Fatalf("MGet raw: %v", err)
	}
	if rows[0] != `{"a":1}` || rows[1] != nil {
		t.Fatalf("MGet raw mismatch: %#v", rows)
	}
}

func TestDelCountAndSubsequentMGet(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.MSet(ctx, []any{"a", 1, "b", 2}); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	n, err := s.Del(ctx, "a", "b", "never")
	if err != nil || n != 2 {
		t.Fatalf("Del expected count 2, got n=%d err=%v", n, err)
	}
	got, err := s.MGet(ctx, []string{"a", "b"})
	if err != nil {
		t.Fatalf("MGet: %v", err)
	}
	if got[0] != nil || got[1] != nil {
		t.Fatalf("deleted keys must read as nil, got %#v", got)
	}
}

func TestMDelFlattensGroups(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.MSet(ctx, []any{"a", 1, "b", 2, "c", 3}); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	n, err := s.MDel(ctx, []string{"a"}, []string{"b", "c"})
	if err != nil || n != 3 {
		t.Fatalf("MDel expected count 3, got n=%d err=%v", n, err)
	}
}

// ==============================
// Enumeration / reset tests
// ==============================

func TestKeysPatternAndDefault(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.MSet(ctx, []any{"user:1", 1, "user:2", 2, "order:1", 3}); err != nil {
		t.Fatalf("MSet: %v", err)
	}

	users, err := s.Keys(ctx, "user:*")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	sort.Strings(users)
	if !reflect.DeepEqual(users, []string{"user:1", "user:2"}) {
		t.Fatalf("pattern match mismatch: %v", users)
	}

	// empty pattern defaults to "*"
	all, err := s.Keys(ctx, "")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 keys, got %v", all)
	}
}

func TestResetClearsEverything(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t, nil)

	if err := s.MSet(ctx, []any{"a", 1, "b", 2}); err != nil {
		t.Fatalf("MSet: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if ks, _ := s.Keys(ctx, "*"); len(ks) != 0 {
		t.Fatalf("expected no keys after reset, got %v", ks)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Fatalf("expected miss after reset")
	}
}

// ==============================
// Construction tests
// ==============================

func TestNewRequiresEngine(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("New without engine must fail")
	}
}

func TestEngineExposed(t *testing.T) {
	s, le := newTestStore(t, nil)
	if s.Engine() != eng.Engine(le) {
		t.Fatalf("Engine must expose the underlying handle")
	}
}

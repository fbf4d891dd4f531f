// Package cachekit layers a uniform caching contract over a raw key-value
// engine: value encoding, TTL semantics, bulk operations, and result
// delivery are normalized so any compliant engine works as an
// interchangeable cache backend.
//
// Components:
//   - engine.Engine: the raw string-keyed backend (Redis, in-process local)
//     executing get/set/setex/del/mset/mget/keys/ttl/flushdb plus an atomic
//     command batch.
//   - codec.Codec: value (de)serialization; JSON by default.
//   - Store: the operation set. Writes pass a cacheability predicate before
//     touching the engine; bulk expiring writes go through one atomic batch.
//   - async: opt-in callback delivery and Future handles on top of a Store.
//
// Usage:
//
//	rdb := goredis.NewClient(&goredis.Options{Addr: "localhost:6379"})
//	re, _ := redisengine.New(redisengine.Config{Client: rdb})
//	store, _ := cachekit.New(cachekit.Options{
//	    Engine:     re,
//	    DefaultTTL: 600, // seconds
//	})
//
//	_ = store.Set(ctx, "user:1", user, cachekit.WithTTL(60))
//	v, ok, err := store.Get(ctx, "user:1")
package cachekit

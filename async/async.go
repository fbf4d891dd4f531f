// Package async layers callback-style completion delivery on top of a
// cachekit.Store. The Store itself is the deferred convention (call, then
// use the returned value or error); this package is the explicit opt-in for
// callers that want results pushed into a completion function instead.
//
// usage:
//
//	as := async.New(store, 4, 256) // 4 workers; queue 256 calls
//	defer as.Close()
//
//	as.Get(ctx, "user:1", func(err error, v any) {
//	    ...
//	})
package async

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/cachekit"
)

// Future is a handle for an eventually-available result, resolved exactly
// once.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn in its own goroutine and returns its Future.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.val, f.err = fn()
		close(f.done)
	}()
	return f
}

// Await blocks until the future resolves or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the future has resolved.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Store runs operations against an inner cachekit.Store on a bounded worker
// pool and delivers each result through a completion callback, invoked
// exactly once with (err, zero) on failure or (nil, result) on success.
// Callbacks run on worker goroutines and must not block indefinitely.
type Store struct {
	inner cachekit.Store
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

// New wraps inner. workers <= 0 defaults to 1; qlen <= 0 defaults to 1024.
// Submission blocks when the queue is full; calls are never dropped.
func New(inner cachekit.Store, workers, qlen int) *Store {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	s := &Store{inner: inner, q: make(chan func(), qlen)}
	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer s.wg.Done()
			for f := range s.q {
				f()
			}
		}()
	}
	return s
}

// Close drains queued calls and stops the workers. It does not close the
// inner store.
func (s *Store) Close() {
	s.once.Do(func() {
		close(s.q)
		s.wg.Wait()
	})
}

func (s *Store) submit(f func()) { s.q <- f }

func (s *Store) Get(ctx context.Context, key string, cb func(error, any), opts ...cachekit.CallOption) {
	s.submit(func() {
		v, ok, err := s.inner.Get(ctx, key, opts...)
		if err != nil {
			cb(err, nil)
			return
		}
		if !ok {
			cb(nil, nil) // miss delivers a nil result
			return
		}
		cb(nil, v)
	})
}

func (s *Store) Set(ctx context.Context, key string, value any, cb func(error), opts ...cachekit.CallOption) {
	s.submit(func() { cb(s.inner.Set(ctx, key, value, opts...)) })
}

func (s *Store) Del(ctx context.Context, keys []string, cb func(error, int64)) {
	s.submit(func() { deliver(cb)(s.inner.Del(ctx, keys...)) })
}

func (s *Store) MGet(ctx context.Context, keys []string, cb func(error, []any), opts ...cachekit.CallOption) {
	s.submit(func() { deliver(cb)(s.inner.MGet(ctx, keys, opts...)) })
}

func (s *Store) MSet(ctx context.Context, args []any, cb func(error), opts ...cachekit.CallOption) {
	s.submit(func() { cb(s.inner.MSet(ctx, args, opts...)) })
}

func (s *Store) MDel(ctx context.Context, groups [][]string, cb func(error, int64)) {
	s.submit(func() { deliver(cb)(s.inner.MDel(ctx, groups...)) })
}

func (s *Store) Keys(ctx context.Context, pattern string, cb func(error, []string)) {
	s.submit(func() { deliver(cb)(s.inner.Keys(ctx, pattern)) })
}

func (s *Store) TTL(ctx context.Context, key string, cb func(error, int64)) {
	s.submit(func() { deliver(cb)(s.inner.TTL(ctx, key)) })
}

func (s *Store) Reset(ctx context.Context, cb func(error)) {
	s.submit(func() { cb(s.inner.Reset(ctx)) })
}

// deliver flips Go's (result, error) into the callback's (error, result)
// order and zeroes the result on failure.
func deliver[T any](cb func(error, T)) func(T, error) {
	return func(v T, err error) {
		if err != nil {
			var zero T
			cb(err, zero)
			return
		}
		cb(nil, v)
	}
}

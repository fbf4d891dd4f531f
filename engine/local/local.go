// Package local is an in-process engine backed by a plain map. It implements
// the full cachekit engine contract, including glob key enumeration and
// atomic batches, so it can back tests and single-process deployments.
package local

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gobwas/glob"

	eng "github.com/unkn0wn-root/cachekit/engine"
)

type entry struct {
	val string
	exp time.Time // zero => no expiry
}

// Local keeps entries in memory. Expired entries are dropped lazily on
// access; an optional janitor prunes them in the background.
type Local struct {
	mu sync.RWMutex
	m  map[string]entry

	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

var _ eng.Engine = (*Local)(nil)

type Config struct {
	// CleanupInterval enables a background sweep of expired entries.
	// 0 disables the janitor; lazy expiry still applies.
	CleanupInterval time.Duration
}

func New(cfg Config) *Local {
	l := &Local{m: make(map[string]entry)}
	if cfg.CleanupInterval > 0 {
		l.ticker = time.NewTicker(cfg.CleanupInterval)
		l.stopCh = make(chan struct{})
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			for {
				select {
				case <-l.ticker.C:
					l.sweep()
				case <-l.stopCh:
					return
				}
			}
		}()
	}
	return l
}

// live reports whether e is present and unexpired at now.
func live(e entry, now time.Time) bool {
	return e.exp.IsZero() || now.Before(e.exp)
}

func (l *Local) Get(_ context.Context, key string) (string, bool, error) {
	now := time.Now()
	l.mu.RLock()
	e, ok := l.m[key]
	l.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !live(e, now) {
		l.mu.Lock()
		if e2, ok := l.m[key]; ok && !live(e2, now) {
			delete(l.m, key)
		}
		l.mu.Unlock()
		return "", false, nil
	}
	return e.val, true, nil
}

func (l *Local) Set(_ context.Context, key, value string) error {
	l.mu.Lock()
	l.m[key] = entry{val: value}
	l.mu.Unlock()
	return nil
}

func (l *Local) SetEx(_ context.Context, key string, seconds int64, value string) error {
	if seconds <= 0 {
		return fmt.Errorf("local engine: setex %q: non-positive expiry %d", key, seconds)
	}
	l.mu.Lock()
	l.m[key] = entry{val: value, exp: time.Now().Add(time.Duration(seconds) * time.Second)}
	l.mu.Unlock()
	return nil
}

func (l *Local) Del(_ context.Context, keys ...string) (int64, error) {
	now := time.Now()
	var n int64
	l.mu.Lock()
	for _, k := range keys {
		if e, ok := l.m[k]; ok {
			if live(e, now) {
				n++
			}
			delete(l.m, k)
		}
	}
	l.mu.Unlock()
	return n, nil
}

func (l *Local) MSet(_ context.Context, pairs ...string) error {
	if len(pairs)%2 != 0 {
		return fmt.Errorf("local engine: mset: odd argument count %d", len(pairs))
	}
	l.mu.Lock()
	for i := 0; i < len(pairs); i += 2 {
		l.m[pairs[i]] = entry{val: pairs[i+1]}
	}
	l.mu.Unlock()
	return nil
}

func (l *Local) MGet(_ context.Context, keys ...string) ([]*string, error) {
	now := time.Now()
	out := make([]*string, len(keys))
	l.mu.RLock()
	for i, k := range keys {
		if e, ok := l.m[k]; ok && live(e, now) {
			v := e.val
			out[i] = &v
		}
	}
	l.mu.RUnlock()
	return out, nil
}

func (l *Local) Keys(_ context.Context, pattern string) ([]string, error) {
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("local engine: bad pattern %q: %w", pattern, err)
	}
	now := time.Now()
	var out []string
	l.mu.RLock()
	for k, e := range l.m {
		if live(e, now) && g.Match(k) {
			out = append(out, k)
		}
	}
	l.mu.RUnlock()
	return out, nil
}

func (l *Local) TTL(_ context.Context, key string) (int64, error) {
	now := time.Now()
	l.mu.RLock()
	e, ok := l.m[key]
	l.mu.RUnlock()
	if !ok || !live(e, now) {
		return eng.TTLMissing, nil
	}
	if e.exp.IsZero() {
		return eng.TTLNone, nil
	}
	rem := e.exp.Sub(now)
	secs := int64(rem / time.Second)
	if rem%time.Second > 0 {
		secs++ // round up, matching integer-second engines
	}
	return secs, nil
}

func (l *Local) FlushDB(_ context.Context) error {
	l.mu.Lock()
	l.m = make(map[string]entry)
	l.mu.Unlock()
	return nil
}

// Batch queues expiring writes and applies them under one lock acquisition,
// so readers observe either none or all of the batch.
func (l *Local) Batch() eng.Batch {
	return &batch{l: l}
}

type setexCmd struct {
	key     string
	seconds int64
	value   string
}

type batch struct {
	l    *Local
	cmds []setexCmd
}

func (b *batch) SetEx(key string, seconds int64, value string) {
	b.cmds = append(b.cmds, setexCmd{key: key, seconds: seconds, value: value})
}

func (b *batch) Exec(_ context.Context) error {
	for _, c := range b.cmds {
		if c.seconds <= 0 {
			return fmt.Errorf("local engine: batch setex %q: non-positive expiry %d", c.key, c.seconds)
		}
	}
	now := time.Now()
	b.l.mu.Lock()
	for _, c := range b.cmds {
		b.l.m[c.key] = entry{val: c.value, exp: now.Add(time.Duration(c.seconds) * time.Second)}
	}
	b.l.mu.Unlock()
	b.cmds = nil
	return nil
}

func (l *Local) sweep() {
	now := time.Now()
	var candidates []string

	l.mu.RLock()
	for k, e := range l.m {
		if !live(e, now) {
			candidates = append(candidates, k)
		}
	}
	l.mu.RUnlock()

	if len(candidates) == 0 {
		return
	}

	l.mu.Lock()
	for _, k := range candidates {
		if e, ok := l.m[k]; ok && !live(e, now) {
			delete(l.m, k)
		}
	}
	l.mu.Unlock()
}

func (l *Local) Close(context.Context) error {
	l.closeOnce.Do(func() {
		if l.stopCh != nil {
			close(l.stopCh)
			l.ticker.Stop()
			l.wg.Wait()
		}
	})
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	eng "github.com/unkn0wn-root/cachekit/engine"
)

var ErrNilClient = errors.New("redis engine: nil client")

// Redis adapts a go-redis client to the cachekit engine contract.
type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ eng.Engine = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this engine exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// Client exposes the underlying go-redis handle.
func (e *Redis) Client() goredis.UniversalClient { return e.rdb }

func (e *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	s, err := e.rdb.Get(ctx, key).Result()
	if err == goredis.Nil {
		return "", false, nil // miss
	}
	if err != nil {
		return "", false, err // transport/server error
	}
	return s, true, nil
}

func (e *Redis) Set(ctx context.Context, key, value string) error {
	return e.rdb.Set(ctx, key, value, 0).Err()
}

func (e *Redis) SetEx(ctx context.Context, key string, seconds int64, value string) error {
	return e.rdb.SetEx(ctx, key, value, time.Duration(seconds)*time.Second).Err()
}

func (e *Redis) Del(ctx context.Context, keys ...string) (int64, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	return e.rdb.Del(ctx, keys...).Result()
}

func (e *Redis) MSet(ctx context.Context, pairs ...string) error {
	args := make([]interface{}, len(pairs))
	for i, p := range pairs {
		args[i] = p
	}
	return e.rdb.MSet(ctx, args...).Err()
}

func (e *Redis) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := e.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*string, len(vals))
	for i, v := range vals {
		switch vv := v.(type) {
		case nil:
			// miss; leave slot nil
		case string:
			out[i] = &vv
		case []byte:
			s := string(vv)
			out[i] = &s
		default:
			s := fmt.Sprint(vv)
			out[i] = &s
		}
	}
	return out, nil
}

func (e *Redis) Keys(ctx context.Context, pattern string) ([]string, error) {
	return e.rdb.Keys(ctx, pattern).Result()
}

func (e *Redis) TTL(ctx context.Context, key string) (int64, error) {
	d, err := e.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// go-redis keeps the -1/-2 sentinels as raw negative durations
	if d < 0 {
		return int64(d), nil
	}
	return int64(d / time.Second), nil
}

func (e *Redis) FlushDB(ctx context.Context) error {
	return e.rdb.FlushDB(ctx).Err()
}

// Batch queues commands locally and submits them through a transaction
// pipeline on Exec (MULTI/EXEC on the wire).
func (e *Redis) Batch() eng.Batch {
	return &batch{rdb: e.rdb}
}

type setexCmd struct {
	key     string
	seconds int64
	value   string
}

type batch struct {
	rdb  goredis.UniversalClient
	cmds []setexCmd
}

func (b *batch) SetEx(key string, seconds int64, value string) {
	b.cmds = append(b.cmds, setexCmd{key: key, seconds: seconds, value: value})
}

func (b *batch) Exec(ctx context.Context) error {
	if len(b.cmds) == 0 {
		return nil
	}
	pipe := b.rdb.TxPipeline()
	for _, c := range b.cmds {
		pipe.SetEx(ctx, c.key, c.value, time.Duration(c.seconds)*time.Second)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Close releases the underlying redis client only when this engine owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (e *Redis) Close(context.Context) error {
	if e.closeClient {
		if err := e.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

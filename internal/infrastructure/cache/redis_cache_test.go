package cache

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryHook answers GET, SET and DEL from a map so the client never dials.
type memoryHook struct {
	data map[string][]byte
	keys []string
}

func (h *memoryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return nil, fmt.Errorf("unexpected dial to %s", addr)
	}
}

func (h *memoryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		args := cmd.Args()
		switch c := cmd.(type) {
		case *redis.StringCmd:
			key := args[1].(string)
			h.keys = append(h.keys, key)
			if v, ok := h.data[key]; ok {
				c.SetVal(string(v))
			} else {
				c.SetErr(redis.Nil)
			}
		case *redis.StatusCmd:
			key := args[1].(string)
			h.keys = append(h.keys, key)
			h.data[key] = args[2].([]byte)
			c.SetVal("OK")
		case *redis.IntCmd:
			var n int64
			for _, a := range args[1:] {
				key := a.(string)
				h.keys = append(h.keys, key)
				if _, ok := h.data[key]; ok {
					delete(h.data, key)
					n++
				}
			}
			c.SetVal(n)
		default:
			return fmt.Errorf("unsupported command %s", cmd.Name())
		}
		return cmd.Err()
	}
}

func (h *memoryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newTestCache(t *testing.T) (*RedisCache, *memoryHook) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	t.Cleanup(func() { rdb.Close() })

	hook := &memoryHook{data: map[string][]byte{}}
	rdb.AddHook(hook)
	return NewRedisCache(rdb, "loklagbe:"), hook
}

type stats struct {
	Users int64 `json:"users"`
}

func TestRedisCacheMissIsNotAnError(t *testing.T) {
	c, _ := newTestCache(t)

	var got stats
	found, err := c.Get(context.Background(), "admin:dashboard", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCacheRoundTripUsesPrefix(t *testing.T) {
	c, hook := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "admin:dashboard", stats{Users: 7}, time.Minute))
	assert.JSONEq(t, `{"users":7}`, string(hook.data["loklagbe:admin:dashboard"]))

	var got stats
	found, err := c.Get(ctx, "admin:dashboard", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(7), got.Users)

	require.NoError(t, c.Delete(ctx, "admin:dashboard", "user:name:u1"))
	assert.Empty(t, hook.data)
	assert.Contains(t, hook.keys, "loklagbe:user:name:u1")
	for _, k := range hook.keys {
		assert.Contains(t, k, "loklagbe:")
	}
}

func TestRedisCacheDeleteNothing(t *testing.T) {
	c, hook := newTestCache(t)
	require.NoError(t, c.Delete(context.Background()))
	assert.Empty(t, hook.keys)
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	var c NoopCache
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", stats{Users: 1}, time.Minute))

	var got stats
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, got.Users)
	assert.NoError(t, c.Delete(ctx, "k"))
}

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return New(client), mr
}

func TestGetJSONMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var dest []string
	found, err := c.GetJSON(context.Background(), "absent", &dest)
	require.NoError(t, err)
	require.False(t, found)
}

func TestSetAndGetJSONRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "key", []string{"a", "b"}, time.Minute))

	var dest []string
	found, err := c.GetJSON(ctx, "key", &dest)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []string{"a", "b"}, dest)
}

func TestAsidePopulatesOnMissThenServesFromCache(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	fetches := 0
	fetch := func(dest *[]string) func() error {
		return func() error {
			fetches++
			*dest = []string{"fresh"}
			return nil
		}
	}

	var first []string
	require.NoError(t, c.Aside(ctx, "list", &first, time.Minute, fetch(&first)))
	require.Equal(t, 1, fetches)
	require.Equal(t, []string{"fresh"}, first)

	var second []string
	require.NoError(t, c.Aside(ctx, "list", &second, time.Minute, fetch(&second)))
	// Hit: fetch is not called again.
	require.Equal(t, 1, fetches)
	require.Equal(t, first, second)
}

func TestAsideRefetchesAfterExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	fetches := 0
	var dest []string
	fetch := func() error {
		fetches++
		dest = []string{"v"}
		return nil
	}

	require.NoError(t, c.Aside(ctx, "list", &dest, time.Second, fetch))
	mr.FastForward(2 * time.Second)
	require.NoError(t, c.Aside(ctx, "list", &dest, time.Second, fetch))
	require.Equal(t, 2, fetches)
}

func TestAsideFallsBackToFetchWhenRedisDies(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	mr.Close()

	fetches := 0
	var dest []string
	require.NoError(t, c.Aside(ctx, "list", &dest, time.Minute, func() error {
		fetches++
		dest = []string{"db"}
		return nil
	}))
	require.Equal(t, 1, fetches)
	require.Equal(t, []string{"db"}, dest)
}

func TestAsideTreatsCorruptEntryAsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("list", "not json"))

	fetches := 0
	var dest []string
	require.NoError(t, c.Aside(ctx, "list", &dest, time.Minute, func() error {
		fetches++
		dest = []string{"db"}
		return nil
	}))
	require.Equal(t, 1, fetches)
	require.Equal(t, []string{"db"}, dest)
}

func TestInvalidateRemovesKey(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SetJSON(ctx, "key", "v", time.Minute))
	require.NoError(t, c.Invalidate(ctx, "key"))

	var dest string
	found, err := c.GetJSON(ctx, "key", &dest)
	require.NoError(t, err)
	require.False(t, found)
}

func TestNilClientDegradesToPassThrough(t *testing.T) {
	c := New(nil)
	ctx := context.Background()

	var dest []string
	found, err := c.GetJSON(ctx, "key", &dest)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, c.SetJSON(ctx, "key", "v", time.Minute))
	require.NoError(t, c.Invalidate(ctx, "key"))

	calls := 0
	require.NoError(t, c.Aside(ctx, "key", &dest, time.Minute, func() error {
		calls++
		dest = []string{"db"}
		return nil
	}))
	// Every read falls through to the fetch when Redis is unavailable.
	require.Equal(t, 1, calls)
	require.Equal(t, []string{"db"}, dest)
}

package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	store, err := NewRedisStore("redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store, mr
}

func TestRedisStore_PutThenGet(t *testing.T) {
	store, mr := newRedisStore(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(store, WithClock(fixedClock(now)), WithLogger(quietLogger()))

	payload := json.RawMessage(`{"status":"OK","data":{"info":{"user":"Meiy"}}}`)
	require.NoError(t, c.Put("players_4_no_params", payload))

	got, ok := c.Get("players_4_no_params", DefaultMaxAge)
	require.True(t, ok)
	assert.JSONEq(t, string(payload), string(got))

	assert.True(t, mr.Exists(DefaultRedisPrefix+"players_4_no_params"))
	assert.Equal(t, time.Duration(0), mr.TTL(DefaultRedisPrefix+"players_4_no_params"))
}

func TestRedisStore_StaleAndMissing(t *testing.T) {
	store, _ := newRedisStore(t)
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(store, WithClock(func() time.Time { return now }), WithLogger(quietLogger()))

	_, ok := c.Get("teams_no_params", DefaultMaxAge)
	assert.False(t, ok)

	require.NoError(t, c.Put("teams_no_params", json.RawMessage(`{"data":[]}`)))
	now = now.Add(48 * time.Hour)

	_, ok = c.Get("teams_no_params", DefaultMaxAge)
	assert.False(t, ok)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	store, mr := newRedisStore(t)
	require.NoError(t, mr.Set(DefaultRedisPrefix+"events_no_params", "not json"))

	c := New(store, WithLogger(quietLogger()))
	_, ok := c.Get("events_no_params", DefaultMaxAge)
	assert.False(t, ok)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr(), "growth:")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Write("k", []byte("v")))
	got, err := mr.Get("growth:k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("not a url", "")
	assert.Error(t, err)
}

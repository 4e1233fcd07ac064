package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func TestScope_SetGet(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	scope := store.Scope("sid-1")

	require.NoError(t, scope.Set(ctx, "user", payload{Name: "awa", Count: 2}))

	var got payload
	ok, err := scope.Get(ctx, "user", &got)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, payload{Name: "awa", Count: 2}, got)

	assert.True(t, mr.Exists("session:sid-1"))
	assert.Equal(t, time.Hour, mr.TTL("session:sid-1"))
}

func TestScope_GetMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	var got payload
	ok, err := store.Scope("nobody").Get(context.Background(), "cart", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScope_SlidingTTL(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	scope := store.Scope("sid")

	require.NoError(t, scope.Set(ctx, "cart", []int{1}))
	mr.FastForward(50 * time.Minute)

	var got []int
	ok, err := scope.Get(ctx, "cart", &got)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Hour, mr.TTL("session:sid"))

	mr.FastForward(2 * time.Hour)
	ok, err = scope.Get(ctx, "cart", &got)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScope_IsolatedBySession(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Scope("a").Set(ctx, "cart", "A"))
	require.NoError(t, store.Scope("b").Set(ctx, "cart", "B"))

	var got string
	_, err := store.Scope("a").Get(ctx, "cart", &got)
	require.NoError(t, err)
	assert.Equal(t, "A", got)
}

func TestScope_DeleteAndDestroy(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()
	scope := store.Scope("sid")

	require.NoError(t, scope.Set(ctx, "cart", "x"))
	require.NoError(t, scope.Set(ctx, "user", "y"))

	require.NoError(t, scope.Delete(ctx, "cart"))
	var got string
	ok, err := scope.Get(ctx, "cart", &got)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, scope.Destroy(ctx))
	assert.False(t, mr.Exists("session:sid"))
}

func TestScope_DecodeError(t *testing.T) {
	store, mr := setupTestStore(t)
	mr.HSet("session:sid", "cart", "not-json")

	var got []int
	_, err := store.Scope("sid").Get(context.Background(), "cart", &got)
	assert.ErrorContains(t, err, "session decode cart")
}

func TestScope_RedisDown(t *testing.T) {
	store, mr := setupTestStore(t)
	mr.Close()

	err := store.Scope("sid").Set(context.Background(), "cart", "x")
	assert.Error(t, err)
}

package cart

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/djjoel12/talksellr/internal/domain/model"
	"github.com/djjoel12/talksellr/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestCart(t *testing.T, sessionID string) (*Store, *session.RedisStore) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewRedisStore(client, time.Hour)
	return New(store.Scope(sessionID)), store
}

func TestAddLine_AppendsAndIncrements(t *testing.T) {
	c, _ := setupTestCart(t, "s1")
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()

	require.NoError(t, c.AddLine(ctx, a, 1))
	require.NoError(t, c.AddLine(ctx, b, 2))
	require.NoError(t, c.AddLine(ctx, a, 3))

	lines, err := c.ListLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{
		{ProductID: a, Quantity: 4},
		{ProductID: b, Quantity: 2},
	}, lines)
}

func TestAddLine_Validation(t *testing.T) {
	c, _ := setupTestCart(t, "s1")
	ctx := context.Background()

	var verr *ValidationError
	err := c.AddLine(ctx, "not-an-id", 1)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "product_id", verr.Field)

	err = c.AddLine(ctx, uuid.NewString(), 0)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)

	err = c.AddLine(ctx, uuid.NewString(), -2)
	assert.True(t, errors.As(err, &verr))

	lines, err := c.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestListLines_EmptyIsNotNil(t *testing.T) {
	c, _ := setupTestCart(t, "s1")

	lines, err := c.ListLines(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, lines)
	assert.Len(t, lines, 0)
}

func TestRemoveLine(t *testing.T) {
	c, _ := setupTestCart(t, "s1")
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()

	require.NoError(t, c.AddLine(ctx, a, 1))
	require.NoError(t, c.AddLine(ctx, b, 1))

	// 無い商品は何もしない
	require.NoError(t, c.RemoveLine(ctx, uuid.NewString()))

	require.NoError(t, c.RemoveLine(ctx, a))
	lines, err := c.ListLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: b, Quantity: 1}}, lines)

	require.NoError(t, c.RemoveLine(ctx, b))
	lines, err = c.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestClear(t *testing.T) {
	c, _ := setupTestCart(t, "s1")
	ctx := context.Background()

	require.NoError(t, c.AddLine(ctx, uuid.NewString(), 1))
	require.NoError(t, c.Clear(ctx))

	lines, err := c.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestCartsAreScopedBySession(t *testing.T) {
	c1, store := setupTestCart(t, "s1")
	c2 := New(store.Scope("s2"))
	ctx := context.Background()

	require.NoError(t, c1.AddLine(ctx, uuid.NewString(), 1))

	lines, err := c2.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAddLine_QuantityLimit(t *testing.T) {
	c, _ := setupTestCart(t, "s1")
	ctx := context.Background()
	id := uuid.NewString()

	var verr *ValidationError
	err := c.AddLine(ctx, id, math.MaxInt64)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)

	require.NoError(t, c.AddLine(ctx, id, MaxLineQuantity))

	// 上限を超える加算は拒否して数量はそのまま
	err = c.AddLine(ctx, id, 1)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "quantity", verr.Field)

	lines, err := c.ListLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: id, Quantity: MaxLineQuantity}}, lines)
}

func TestAddLine_SameProductDifferentSpellings(t *testing.T) {
	c, _ := setupTestCart(t, "s1")
	ctx := context.Background()
	u := uuid.New()
	id := u.String()

	spellings := []string{
		id,
		strings.ToUpper(id),
		"{" + id + "}",
		"urn:uuid:" + id,
		strings.ReplaceAll(id, "-", ""),
	}
	for _, s := range spellings {
		require.NoError(t, c.AddLine(ctx, s, 1), s)
	}

	lines, err := c.ListLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.CartLine{{ProductID: id, Quantity: 5}}, lines)

	require.NoError(t, c.RemoveLine(ctx, strings.ToUpper(id)))
	lines, err = c.ListLines(ctx)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

package cache

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cachedQuestion struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil))), server
}

func TestRedisCache_SetGet(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, QuestionKey(1), cachedQuestion{ID: 1, Text: "Capital?"}, time.Minute))

	var got cachedQuestion
	require.NoError(t, c.Get(ctx, QuestionKey(1), &got))
	assert.Equal(t, cachedQuestion{ID: 1, Text: "Capital?"}, got)

	server.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.Get(ctx, QuestionKey(1), &got), ErrCacheMiss)
}

func TestRedisCache_GetMiss(t *testing.T) {
	c, _ := newTestCache(t)

	var got cachedQuestion
	assert.ErrorIs(t, c.Get(context.Background(), "missing", &got), ErrCacheMiss)
}

func TestRedisCache_GetCorruptEntry(t *testing.T) {
	c, server := newTestCache(t)
	require.NoError(t, server.Set(QuestionKey(2), "{not json"))

	var got cachedQuestion
	assert.ErrorIs(t, c.Get(context.Background(), QuestionKey(2), &got), ErrCacheMiss)
	assert.False(t, server.Exists(QuestionKey(2)))
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, server := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, QuestionKey(5), cachedQuestion{ID: 5}, 0))
	require.NoError(t, c.Set(ctx, AnswerConfigKey(5), map[string]string{"type": "essay"}, 0))
	require.NoError(t, c.Set(ctx, QuestionKey(6), cachedQuestion{ID: 6}, 0))
	require.NoError(t, c.Set(ctx, QuestionKey(50), cachedQuestion{ID: 50}, 0))

	require.NoError(t, c.DeletePattern(ctx, QuestionPattern(5)))

	assert.False(t, server.Exists(QuestionKey(5)))
	assert.False(t, server.Exists(AnswerConfigKey(5)))
	assert.True(t, server.Exists(QuestionKey(6)))
	assert.True(t, server.Exists(QuestionKey(50)))

	require.NoError(t, c.Delete(ctx, QuestionKey(6)))
	assert.False(t, server.Exists(QuestionKey(6)))
}

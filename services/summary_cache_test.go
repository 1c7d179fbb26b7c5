package services

import (
	"context"
	"testing"
	"time"

	"minicms/ai"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisSummaryCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisSummaryCache(client, ttl), mr
}

func TestRedisSummaryCacheRoundTrip(t *testing.T) {
	cache, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	_, ok := cache.GetSummary(ctx, 3)
	assert.False(t, ok)

	cache.StoreSummary(ctx, 3, &ai.Summary{
		Summary:    "About walking.",
		Vocabulary: []ai.VocabularyItem{{Word: "stroll", Definition: "a slow walk"}},
	})

	assert.True(t, mr.Exists("summary:article:3"))
	assert.Equal(t, time.Hour, mr.TTL("summary:article:3"))

	got, ok := cache.GetSummary(ctx, 3)
	require.True(t, ok)
	assert.Equal(t, "About walking.", got.Summary)
	require.Len(t, got.Vocabulary, 1)
	assert.Equal(t, "stroll", got.Vocabulary[0].Word)
}

func TestRedisSummaryCacheExpires(t *testing.T) {
	cache, mr := newRedisCache(t, time.Minute)
	ctx := context.Background()

	cache.StoreSummary(ctx, 5, &ai.Summary{Summary: "x"})
	mr.FastForward(2 * time.Minute)

	_, ok := cache.GetSummary(ctx, 5)
	assert.False(t, ok)
}

func TestRedisSummaryCacheIgnoresCorruptEntries(t *testing.T) {
	cache, mr := newRedisCache(t, time.Hour)
	require.NoError(t, mr.Set("summary:article:8", "{not json"))

	_, ok := cache.GetSummary(context.Background(), 8)
	assert.False(t, ok)
}

func TestRedisSummaryCacheUnavailable(t *testing.T) {
	cache, mr := newRedisCache(t, time.Hour)
	mr.Close()
	ctx := context.Background()

	cache.StoreSummary(ctx, 1, &ai.Summary{Summary: "lost"})
	_, ok := cache.GetSummary(ctx, 1)
	assert.False(t, ok)
}

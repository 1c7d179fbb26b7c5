package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"minicms/ai"

	"github.com/redis/go-redis/v9"
)

// SummaryCache keeps generated article summaries so each article costs one
// collaborator call per TTL.
type SummaryCache interface {
	GetSummary(ctx context.Context, articleID uint) (*ai.Summary, bool)
	StoreSummary(ctx context.Context, articleID uint, summary *ai.Summary)
}

type RedisSummaryCache struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration) *RedisSummaryCache {
	return &RedisSummaryCache{
		redis: client,
		ttl:   ttl,
	}
}

func summaryKey(articleID uint) string {
	return fmt.Sprintf("summary:article:%d", articleID)
}

func (c *RedisSummaryCache) StoreSummary(ctx context.Context, articleID uint, summary *ai.Summary) {
	data, err := json.Marshal(summary)
	if err != nil {
		log.Printf("Failed to marshal summary for article %d: %v", articleID, err)
		return
	}

	if err := c.redis.Set(ctx, summaryKey(articleID), data, c.ttl).Err(); err != nil {
		log.Printf("Failed to store summary for article %d in Redis: %v", articleID, err)
	}
}

func (c *RedisSummaryCache) GetSummary(ctx context.Context, articleID uint) (*ai.Summary, bool) {
	data, err := c.redis.Get(ctx, summaryKey(articleID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Redis error getting summary for article %d: %v", articleID, err)
		}
		return nil, false
	}

	var summary ai.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		log.Printf("Failed to unmarshal summary for article %d: %v", articleID, err)
		return nil, false
	}
	return &summary, true
}

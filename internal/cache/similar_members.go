package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"talentscope/internal/model"
)

// SimilarMembersCache keeps similar-member lists hot in Redis in front of
// the persisted SimilarityScore rows. Entries are dropped whenever the
// user's vectors change.
type SimilarMembersCache interface {
	Get(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error)
	Set(ctx context.Context, userID string, minSimilarity float64, limit int, scores []*model.SimilarityScore) error
	Invalidate(ctx context.Context, userID string) error
}

type similarMembersCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSimilarMembersCache(client *redis.Client) SimilarMembersCache {
	return &similarMembersCache{
		client: client,
		ttl:    6 * time.Hour,
	}
}

func (c *similarMembersCache) key(userID string, minSimilarity float64, limit int) string {
	return fmt.Sprintf("sim:%s:%g:%d", userID, minSimilarity, limit)
}

func (c *similarMembersCache) Get(ctx context.Context, userID string, minSimilarity float64, limit int) ([]*model.SimilarityScore, error) {
	data, err := c.client.Get(ctx, c.key(userID, minSimilarity, limit)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var scores []*model.SimilarityScore
	if err := json.Unmarshal([]byte(data), &scores); err != nil {
		return nil, err
	}
	return scores, nil
}

func (c *similarMembersCache) Set(ctx context.Context, userID string, minSimilarity float64, limit int, scores []*model.SimilarityScore) error {
	data, err := json.Marshal(scores)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID, minSimilarity, limit), data, c.ttl).Err()
}

// Invalidate drops every cached list the user owns. Lists the user merely
// appears in expire via TTL; the persisted rows are the source of truth and
// are deleted eagerly by the engine.
func (c *similarMembersCache) Invalidate(ctx context.Context, userID string) error {
	var cursor uint64
	pattern := fmt.Sprintf("sim:%s:*", userID)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

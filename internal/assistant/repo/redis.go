package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/evebot-core/server/internal/assistant/model"
	errx "github.com/evebot-core/server/internal/core/error"
	logx "github.com/evebot-core/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// RedisConversationStore keeps one list of turn snapshots per user, newest
// at the tail. Concurrent appends from the same user interleave safely
// because each append is a self-contained RPUSH.
type RedisConversationStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewRedisConversationStore(rdb redis.Cmdable, ttl time.Duration) *RedisConversationStore {
	return &RedisConversationStore{rdb: rdb, ttl: ttl}
}

func (s *RedisConversationStore) turnsKey(userID string) string {
	return fmt.Sprintf("chat:%s:turns", userID)
}

func (s *RedisConversationStore) Append(ctx context.Context, turn model.ConversationTurn) error {
	b, err := json.Marshal(turn)
	if err != nil {
		logx.Error().Err(err).Str("user_id", turn.UserID).Msg("failed to marshal turn")
		return fmt.Errorf("marshal turn: %w", err)
	}
	key := s.turnsKey(turn.UserID)

	if err := s.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push turn to redis")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if s.ttl > 0 {
		if ok, err := s.rdb.Expire(ctx, key, s.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", s.ttl).Msg("failed to set TTL on conversation key")
		}
	}
	return nil
}

func (s *RedisConversationStore) Recent(ctx context.Context, userID string, limit int) ([]model.ConversationTurn, error) {
	if limit <= 0 {
		return []model.ConversationTurn{}, nil
	}
	key := s.turnsKey(userID)

	rows, err := s.rdb.LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.ConversationTurn{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load turns from redis")
		return nil, errx.WrapRedis(err)
	}

	// LRANGE returns oldest-first; callers expect most-recent-first.
	turns := make([]model.ConversationTurn, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		var t model.ConversationTurn
		if err := json.Unmarshal([]byte(rows[i]), &t); err != nil {
			logx.Error().Err(err).Str("user_id", userID).Int("index", i).Msg("failed to unmarshal turn")
			return nil, fmt.Errorf("unmarshal turn at index %d: %w", i, err)
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisConversationStore) Count(ctx context.Context, userID string) (int, error) {
	key := s.turnsKey(userID)
	n, err := s.rdb.LLen(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to count turns in redis")
		return 0, errx.WrapRedis(err)
	}
	return int(n), nil
}

var _ model.ConversationStore = (*RedisConversationStore)(nil)

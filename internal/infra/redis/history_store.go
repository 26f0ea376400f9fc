package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
	"github.com/redis/go-redis/v9"
)

// HistoryStore persists quiz results in Redis.
// Results are stored as:  SET  history:{userID}:{quizID} {json}
// A per-user index lives at: SADD history:{userID} {quizID}
// Both carry the configured TTL, so history expires as a unit.
type HistoryStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewHistoryStore(client *redis.Client, ttl time.Duration) *HistoryStore {
	return &HistoryStore{client: client, ttl: ttl}
}

func (s *HistoryStore) Write(ctx context.Context, userID, quizID string, result domain.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal quiz result: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.resultKey(userID, quizID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(userID), quizID)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.indexKey(userID), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("write quiz result: %w", err)
	}
	return nil
}

// ReadAll returns a user's past results, newest first. Index entries whose
// value already expired are skipped.
func (s *HistoryStore) ReadAll(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	quizIDs, err := s.client.SMembers(ctx, s.indexKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("read history index: %w", err)
	}

	results := make([]domain.QuizResult, 0, len(quizIDs))
	for _, quizID := range quizIDs {
		data, err := s.client.Get(ctx, s.resultKey(userID, quizID)).Bytes()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read quiz result: %w", err)
		}
		var result domain.QuizResult
		if err := json.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("unmarshal quiz result: %w", err)
		}
		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

func (s *HistoryStore) resultKey(userID, quizID string) string {
	return "history:" + userID + ":" + quizID
}

func (s *HistoryStore) indexKey(userID string) string {
	return "history:" + userID
}

package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// HistoryStore persists quiz results as JSONB rows in Postgres.
type HistoryStore struct {
	pool *pgxpool.Pool
}

func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

func (s *HistoryStore) Write(ctx context.Context, userID, quizID string, result domain.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal quiz result: %w", err)
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_results (user_id, quiz_id, data, created_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, quiz_id) DO UPDATE SET data=EXCLUDED.data, created_at=EXCLUDED.created_at`,
		userID, quizID, data, result.CreatedAt)
	if err != nil {
		return fmt.Errorf("write quiz result: %w", err)
	}
	return nil
}

// ReadAll returns a user's past results, newest first.
func (s *HistoryStore) ReadAll(ctx context.Context, userID string) ([]domain.QuizResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM quiz_results WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("read quiz results: %w", err)
	}
	defer rows.Close()

	var results []domain.QuizResult
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		var result domain.QuizResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("unmarshal quiz result: %w", err)
		}
		results = append(results, result)
	}
	return results, rows.Err()
}

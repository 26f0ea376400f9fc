package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
)

// HistoryStore is an in-memory implementation of session.HistoryStore,
// useful for tests and for running the service without external backends.
type HistoryStore struct {
	mu      sync.RWMutex
	results map[string]map[string]domain.QuizResult
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		results: make(map[string]map[string]domain.QuizResult),
	}
}

func (s *HistoryStore) Write(_ context.Context, userID, quizID string, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byQuiz, ok := s.results[userID]
	if !ok {
		byQuiz = make(map[string]domain.QuizResult)
		s.results[userID] = byQuiz
	}
	byQuiz[quizID] = result
	return nil
}

// ReadAll returns a user's past results, newest first.
func (s *HistoryStore) ReadAll(_ context.Context, userID string) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byQuiz := s.results[userID]
	results := make([]domain.QuizResult, 0, len(byQuiz))
	for _, result := range byQuiz {
		results = append(results, result)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	return results, nil
}

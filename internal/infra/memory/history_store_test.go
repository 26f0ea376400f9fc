package memory

import (
	"context"
	"testing"
	"time"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
)

func TestHistoryStoreKeysPerUser(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	first := sampleResult("History", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	second := sampleResult("Geography", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))

	if err := store.Write(ctx, "u1", "quiz-a", first); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Write(ctx, "u1", "quiz-b", second); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Write(ctx, "u2", "quiz-c", first); err != nil {
		t.Fatalf("write: %v", err)
	}

	results, err := store.ReadAll(ctx, "u1")
	if err != nil {
		t.Fatalf("read all: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results for u1, got %d", len(results))
	}
	if results[0].Category != "Geography" {
		t.Fatalf("expected newest first, got %q", results[0].Category)
	}

	other, _ := store.ReadAll(ctx, "u2")
	if len(other) != 1 {
		t.Fatalf("expected 1 result for u2, got %d", len(other))
	}

	empty, _ := store.ReadAll(ctx, "unknown")
	if len(empty) != 0 {
		t.Fatalf("expected no results for unknown user, got %d", len(empty))
	}
}

func TestHistoryStoreOverwritesSameQuizID(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	result := sampleResult("History", time.Now())
	_ = store.Write(ctx, "u1", "quiz-a", result)
	result.Score = 3
	_ = store.Write(ctx, "u1", "quiz-a", result)

	results, _ := store.ReadAll(ctx, "u1")
	if len(results) != 1 || results[0].Score != 3 {
		t.Fatalf("expected single overwritten result, got %+v", results)
	}
}

func sampleResult(category string, createdAt time.Time) domain.QuizResult {
	return domain.QuizResult{
		Category:       category,
		Prompts:        []string{"Prompt?"},
		UserAnswers:    []string{"A"},
		CorrectAnswers: []string{"A"},
		Score:          1,
		CreatedAt:      createdAt,
	}
}

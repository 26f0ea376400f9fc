package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/infra/memory"
)

type stubCategories struct {
	categories []domain.Category
	err        error
}

func (s *stubCategories) Categories(context.Context) ([]domain.Category, error) {
	return s.categories, s.err
}

func TestServeHistory(t *testing.T) {
	store := memory.NewHistoryStore()
	_ = store.Write(context.Background(), "u1", "quiz-a", domain.QuizResult{
		Category:       "History",
		Prompts:        []string{"When?"},
		UserAnswers:    []string{"1066"},
		CorrectAnswers: []string{"1066"},
		Score:          1,
		CreatedAt:      time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	handler := NewAPIHandler(store, &stubCategories{})

	rec := httptest.NewRecorder()
	handler.ServeHistory(rec, httptest.NewRequest(http.MethodGet, "/history?userId=u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var results []domain.QuizResult
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 1 || results[0].Category != "History" {
		t.Fatalf("unexpected results %+v", results)
	}
}

func TestServeHistoryRequiresUserID(t *testing.T) {
	handler := NewAPIHandler(memory.NewHistoryStore(), &stubCategories{})

	rec := httptest.NewRecorder()
	handler.ServeHistory(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestServeCategories(t *testing.T) {
	handler := NewAPIHandler(memory.NewHistoryStore(), &stubCategories{
		categories: []domain.Category{{ID: 9, Name: "General Knowledge"}},
	})

	rec := httptest.NewRecorder()
	handler.ServeCategories(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var categories []domain.Category
	if err := json.NewDecoder(rec.Body).Decode(&categories); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(categories) != 1 || categories[0].Name != "General Knowledge" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestServeCategoriesUpstreamFailure(t *testing.T) {
	handler := NewAPIHandler(memory.NewHistoryStore(), &stubCategories{err: errors.New("upstream down")})

	rec := httptest.NewRecorder()
	handler.ServeCategories(rec, httptest.NewRequest(http.MethodGet, "/categories", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
}

package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/domain"
	"github.com/GuilhermeIgnacio/BrainTappers-sub000/internal/session"
)

// CategorySource serves the trivia category catalog.
type CategorySource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// APIHandler exposes the read-only REST surface: quiz history and the
// category catalog.
type APIHandler struct {
	store      session.HistoryStore
	categories CategorySource
}

func NewAPIHandler(store session.HistoryStore, categories CategorySource) *APIHandler {
	return &APIHandler{store: store, categories: categories}
}

// ServeHistory handles GET /history?userId=...
func (h *APIHandler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	results, err := h.store.ReadAll(r.Context(), userID)
	if err != nil {
		log.Printf("read history for %s: %v", userID, err)
		http.Error(w, "could not read quiz history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, results)
}

// ServeCategories handles GET /categories.
func (h *APIHandler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.Categories(r.Context())
	if err != nil {
		log.Printf("load categories: %v", err)
		http.Error(w, "could not load categories", http.StatusBadGateway)
		return
	}
	writeJSON(w, categories)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("encode response: %v", err)
	}
}

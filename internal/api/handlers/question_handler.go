package handlers

import (
	"context"
	"net/http"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// QuestionService defines the handler dependency for question generation.
type QuestionService interface {
	GenerateQuestions(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error)
	ListQuestions(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error)
}

// QuestionHandler handles tender question requests
type QuestionHandler struct {
	service QuestionService
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(service QuestionService) *QuestionHandler {
	return &QuestionHandler{service: service}
}

// GenerateQuestions handles POST /api/tenders/{id}/questions
//
// Regeneration replaces the whole stored set for the pair.
func (h *QuestionHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	tenderID := r.PathValue("id")
	if tenderID == "" {
		respondWithError(w, http.StatusBadRequest, "tender ID is required")
		return
	}

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	questions, err := h.service.GenerateQuestions(r.Context(), userID, tenderID)
	if err != nil {
		respondWithAppError(w, err, "failed to generate questions")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
		"count":     len(questions),
	})
}

// ListQuestions handles GET /api/tenders/{id}/questions
func (h *QuestionHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	tenderID := r.PathValue("id")
	if tenderID == "" {
		respondWithError(w, http.StatusBadRequest, "tender ID is required")
		return
	}

	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	questions, err := h.service.ListQuestions(r.Context(), userID, tenderID)
	if err != nil {
		respondWithAppError(w, err, "failed to list questions")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"questions": questions,
		"count":     len(questions),
	})
}

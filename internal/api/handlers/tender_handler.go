package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
)

// TenderHandler handles tender CRUD requests. These are thin wrappers
// around the repository; the pipeline itself lives behind the analysis
// and question handlers.
type TenderHandler struct {
	repo repositories.TenderRepository
}

// NewTenderHandler creates a new tender handler
func NewTenderHandler(repo repositories.TenderRepository) *TenderHandler {
	return &TenderHandler{repo: repo}
}

// ListTenders handles GET /api/tenders
func (h *TenderHandler) ListTenders(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	tenders, err := h.repo.ListByUser(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err, "failed to list tenders")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"tenders": tenders,
		"count":   len(tenders),
	})
}

// GetTender handles GET /api/tenders/{id}
func (h *TenderHandler) GetTender(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "tender ID is required")
		return
	}

	tender, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err, "failed to get tender")
		return
	}

	respondWithJSON(w, http.StatusOK, tender)
}

// CreateTender handles POST /api/tenders
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var tender entities.Tender
	if err := json.NewDecoder(r.Body).Decode(&tender); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid tender payload")
		return
	}
	if tender.Title == "" {
		respondWithError(w, http.StatusBadRequest, "tender title is required")
		return
	}

	tender.UserID = userID
	now := time.Now().UTC()
	tender.CreatedAt = now
	tender.UpdatedAt = now

	if err := h.repo.Create(r.Context(), &tender); err != nil {
		respondWithAppError(w, err, "failed to create tender")
		return
	}

	respondWithJSON(w, http.StatusCreated, tender)
}

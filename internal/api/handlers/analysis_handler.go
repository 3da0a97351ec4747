package handlers

import (
	"context"
	"net/http"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// AnalysisService defines the handler dependency for tender analysis.
type AnalysisService interface {
	AnalyzeTender(ctx context.Context, userID, tenderID string, force bool) (*entities.TenderAnalysis, error)
}

// AnalysisHandler handles tender analysis requests
type AnalysisHandler struct {
	service AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(service AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// AnalyzeTender handles POST /api/tenders/{id}/analysis
//
// Returns the cached analysis when one exists; force=true recomputes
// and overwrites it.
func (h *AnalysisHandler) AnalyzeTender(w http.ResponseWriter, r *http.Request) {
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

	force := r.URL.Query().Get("force") == "true"

	analysis, err := h.service.AnalyzeTender(r.Context(), userID, tenderID, force)
	if err != nil {
		respondWithAppError(w, err, "failed to analyze tender")
		return
	}

	respondWithJSON(w, http.StatusOK, analysis)
}

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/observability"
)

// CapabilityHandler handles capability profile creation. Created
// profiles are indexed into their search partition right away so the
// retrieval side sees them on the next analysis.
type CapabilityHandler struct {
	repo       repositories.CapabilityRepository
	searchRepo repositories.CapabilitySearchRepository
}

// NewCapabilityHandler creates a new capability handler
func NewCapabilityHandler(repo repositories.CapabilityRepository, searchRepo repositories.CapabilitySearchRepository) *CapabilityHandler {
	return &CapabilityHandler{repo: repo, searchRepo: searchRepo}
}

// CreateCompany handles POST /api/companies
func (h *CapabilityHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var company entities.Company
	if err := json.NewDecoder(r.Body).Decode(&company); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid company payload")
		return
	}
	if company.Name == "" {
		respondWithError(w, http.StatusBadRequest, "company name is required")
		return
	}

	company.UserID = userID
	now := time.Now().UTC()
	company.CreatedAt = now
	company.UpdatedAt = now

	if err := h.repo.CreateCompany(r.Context(), &company); err != nil {
		respondWithAppError(w, err, "failed to create company")
		return
	}

	if h.searchRepo != nil {
		if err := h.searchRepo.IndexCompany(r.Context(), &company); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().
				Str("company_id", company.ID).
				Err(err).
				Msg("failed to index company")
		}
	}

	respondWithJSON(w, http.StatusCreated, company)
}

// CreateProduct handles POST /api/products
func (h *CapabilityHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	var product entities.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid product payload")
		return
	}
	if product.Name == "" {
		respondWithError(w, http.StatusBadRequest, "product name is required")
		return
	}

	product.UserID = userID
	now := time.Now().UTC()
	product.CreatedAt = now
	product.UpdatedAt = now

	if err := h.repo.CreateProduct(r.Context(), &product); err != nil {
		respondWithAppError(w, err, "failed to create product")
		return
	}

	if h.searchRepo != nil {
		if err := h.searchRepo.IndexProduct(r.Context(), &product); err != nil {
			observability.LoggerFromContext(r.Context()).Warn().
				Str("product_id", product.ID).
				Err(err).
				Msg("failed to index product")
		}
	}

	respondWithJSON(w, http.StatusCreated, product)
}

package repositories

import (
	"context"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// CapabilitySearchQuery describes one similarity query against a
// single capability partition, filtered to the requesting user.
type CapabilitySearchQuery struct {
	Partition string
	Text      string
	UserID    string
	Limit     int
}

// CapabilitySearchRepository is the similarity-search side of the
// capability store. Matches come back ordered by descending score.
type CapabilitySearchRepository interface {
	Query(ctx context.Context, q CapabilitySearchQuery) ([]entities.CapabilityMatch, error)
	IndexCompany(ctx context.Context, company *entities.Company) error
	IndexProduct(ctx context.Context, product *entities.Product) error
	InitSchema(ctx context.Context) error
}

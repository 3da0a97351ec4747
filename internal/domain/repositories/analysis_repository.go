package repositories

import (
	"context"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// AnalysisRepository persists composite tender analyses. At most one
// row exists per (user, tender); Upsert overwrites in place.
type AnalysisRepository interface {
	GetByUserAndTender(ctx context.Context, userID, tenderID string) (*entities.TenderAnalysis, error)
	Upsert(ctx context.Context, analysis *entities.TenderAnalysis) error
}

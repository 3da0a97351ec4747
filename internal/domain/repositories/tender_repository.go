package repositories

import (
	"context"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// TenderRepository provides access to ingested tenders
type TenderRepository interface {
	GetByID(ctx context.Context, id string) (*entities.Tender, error)
	ListByUser(ctx context.Context, userID string) ([]*entities.Tender, error)
	Create(ctx context.Context, tender *entities.Tender) error
}

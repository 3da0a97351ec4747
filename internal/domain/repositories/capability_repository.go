package repositories

import (
	"context"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// CapabilityRepository provides access to the user's capability
// profiles. The analysis pipeline only ever reads them.
type CapabilityRepository interface {
	GetCompaniesByIDs(ctx context.Context, ids []string) ([]*entities.Company, error)
	GetProductsByIDs(ctx context.Context, ids []string) ([]*entities.Product, error)
	CreateCompany(ctx context.Context, company *entities.Company) error
	CreateProduct(ctx context.Context, product *entities.Product) error
}

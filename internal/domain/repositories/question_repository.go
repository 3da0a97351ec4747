package repositories

import (
	"context"

	"github.com/tenderintel/backend/internal/domain/entities"
)

// QuestionRepository persists scored question sets. A regenerated set
// replaces the whole previous set for the (user, tender) pair.
type QuestionRepository interface {
	ListByUserAndTender(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error)
	ReplaceSet(ctx context.Context, userID, tenderID string, questions []*entities.TenderQuestion) error
}

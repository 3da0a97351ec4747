package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

const tenderColumns = "id, user_id, title, description, categories, jurisdictions, " +
	"requirements, specifications, evaluation_criteria, deadlines, budget, created_at, updated_at"

// TenderAdapter implements TenderRepository
type TenderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewTenderAdapter creates a new tender adapter
func NewTenderAdapter(client *postgres.Client) repositories.TenderRepository {
	return &TenderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a newly ingested tender
func (a *TenderAdapter) Create(ctx context.Context, tender *entities.Tender) error {
	if tender == nil {
		return apperrors.NewValidationError("tender is required")
	}
	if tender.ID == "" {
		tender.ID = uuid.New().String()
	}

	record := goqu.Record{
		"id":                  tender.ID,
		"user_id":             tender.UserID,
		"title":               tender.Title,
		"description":         sql.NullString{String: tender.Description, Valid: tender.Description != ""},
		"categories":          pq.Array(tender.Categories),
		"jurisdictions":       pq.Array(tender.Jurisdictions),
		"requirements":        tender.Requirements,
		"specifications":      tender.Specifications,
		"evaluation_criteria": tender.EvaluationCriteria,
		"deadlines":           tender.Deadlines,
		"budget":              tender.Budget,
		"created_at":          tender.CreatedAt,
		"updated_at":          tender.UpdatedAt,
	}

	query, args, err := a.db.Insert("tenders").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build tender insert", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create tender", err)
	}
	return nil
}

// GetByID retrieves a tender by ID
func (a *TenderAdapter) GetByID(ctx context.Context, id string) (*entities.Tender, error) {
	query, args, err := a.db.Select(goqu.L(tenderColumns)).
		From("tenders").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build tender query", err)
	}

	tender, err := scanTender(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tender %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get tender", err)
	}
	return tender, nil
}

// ListByUser retrieves every tender owned by a user
func (a *TenderAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.Tender, error) {
	query, args, err := a.db.Select(goqu.L(tenderColumns)).
		From("tenders").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build tender list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list tenders", err)
	}
	defer rows.Close()

	tenders := []*entities.Tender{}
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan tender", err)
		}
		tenders = append(tenders, tender)
	}
	return tenders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTender(row rowScanner) (*entities.Tender, error) {
	tender := &entities.Tender{}
	var description sql.NullString

	err := row.Scan(
		&tender.ID,
		&tender.UserID,
		&tender.Title,
		&description,
		pq.Array(&tender.Categories),
		pq.Array(&tender.Jurisdictions),
		&tender.Requirements,
		&tender.Specifications,
		&tender.EvaluationCriteria,
		&tender.Deadlines,
		&tender.Budget,
		&tender.CreatedAt,
		&tender.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	tender.Description = description.String
	return tender, nil
}

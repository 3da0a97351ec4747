package database

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

// QuestionAdapter implements QuestionRepository with whole-set
// replacement semantics: a regenerated set fully replaces the previous
// one. Delete and insert run inside one transaction so a failure can't
// leave the pair with a half-replaced set.
type QuestionAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewQuestionAdapter creates a new question adapter
func NewQuestionAdapter(client *postgres.Client) repositories.QuestionRepository {
	return &QuestionAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListByUserAndTender retrieves the stored question set in scored order
func (a *QuestionAdapter) ListByUserAndTender(ctx context.Context, userID, tenderID string) ([]*entities.TenderQuestion, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "tender_id", "category", "question",
		"knock_out_risk", "scoring_impact", "financial_impact",
		"schedule_impact", "evidence_burden", "total", "priority",
		"suggestion", "position", "created_at",
	).From("tender_questions").
		Where(goqu.Ex{"user_id": userID, "tender_id": tenderID}).
		Order(goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build question query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list questions", err)
	}
	defer rows.Close()

	questions := []*entities.TenderQuestion{}
	for rows.Next() {
		q := &entities.TenderQuestion{}
		err := rows.Scan(
			&q.ID,
			&q.UserID,
			&q.TenderID,
			&q.Category,
			&q.Question,
			&q.KnockOutRisk,
			&q.ScoringImpact,
			&q.FinancialImpact,
			&q.ScheduleImpact,
			&q.EvidenceBurden,
			&q.Total,
			&q.Priority,
			&q.Suggestion,
			&q.Position,
			&q.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan question", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// ReplaceSet removes any prior questions for the pair and inserts the
// new set.
func (a *QuestionAdapter) ReplaceSet(ctx context.Context, userID, tenderID string, questions []*entities.TenderQuestion) error {
	tx, err := a.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin question replace", err)
	}
	defer tx.Rollback()

	deleteSQL, deleteArgs, err := a.db.Delete("tender_questions").
		Where(goqu.Ex{"user_id": userID, "tender_id": tenderID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build question delete", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return apperrors.NewInternalError("failed to delete prior questions", err)
	}

	if len(questions) > 0 {
		records := make([]interface{}, 0, len(questions))
		for _, q := range questions {
			if q.ID == "" {
				q.ID = uuid.New().String()
			}
			q.UserID = userID
			q.TenderID = tenderID
			records = append(records, goqu.Record{
				"id":               q.ID,
				"user_id":          q.UserID,
				"tender_id":        q.TenderID,
				"category":         q.Category,
				"question":         q.Question,
				"knock_out_risk":   q.KnockOutRisk,
				"scoring_impact":   q.ScoringImpact,
				"financial_impact": q.FinancialImpact,
				"schedule_impact":  q.ScheduleImpact,
				"evidence_burden":  q.EvidenceBurden,
				"total":            q.Total,
				"priority":         q.Priority,
				"suggestion":       q.Suggestion,
				"position":         q.Position,
				"created_at":       q.CreatedAt,
			})
		}

		insertSQL, insertArgs, err := a.db.Insert("tender_questions").Rows(records...).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build question insert", err)
		}
		if _, err := tx.ExecContext(ctx, insertSQL, insertArgs...); err != nil {
			return apperrors.NewInternalError("failed to insert question set", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit question replace", err)
	}
	return nil
}

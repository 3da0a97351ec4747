package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/tenderintel/backend/internal/domain/entities"
	"github.com/tenderintel/backend/internal/domain/repositories"
	"github.com/tenderintel/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tenderintel/backend/pkg/errors"
)

// AnalysisAdapter implements AnalysisRepository. The tender_analyses
// table carries a UNIQUE (user_id, tender_id) constraint; Upsert leans
// on it so regeneration can never produce a second row for the pair.
type AnalysisAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewAnalysisAdapter creates a new analysis adapter
func NewAnalysisAdapter(client *postgres.Client) repositories.AnalysisRepository {
	return &AnalysisAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// GetByUserAndTender retrieves the stored analysis for a (user, tender) pair
func (a *AnalysisAdapter) GetByUserAndTender(ctx context.Context, userID, tenderID string) (*entities.TenderAnalysis, error) {
	query, args, err := a.db.Select(
		"id", "user_id", "tender_id", "summary", "match_percentage",
		"rating", "recommendation", "strengths", "gaps", "opportunities",
		"risks", "action_items", "budget_assessment", "timeline_assessment",
		"matching_products", "computed_at",
	).From("tender_analyses").
		Where(goqu.Ex{"user_id": userID, "tender_id": tenderID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build analysis query", err)
	}

	analysis := &entities.TenderAnalysis{}
	var summary, rating, recommendation, budget, timeline sql.NullString
	var strengthsRaw, gapsRaw, opportunitiesRaw, risksRaw, actionsRaw, productsRaw []byte

	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(
		&analysis.ID,
		&analysis.UserID,
		&analysis.TenderID,
		&summary,
		&analysis.MatchPercentage,
		&rating,
		&recommendation,
		&strengthsRaw,
		&gapsRaw,
		&opportunitiesRaw,
		&risksRaw,
		&actionsRaw,
		&budget,
		&timeline,
		&productsRaw,
		&analysis.ComputedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("analysis for tender %s not found", tenderID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get analysis", err)
	}

	analysis.Summary = summary.String
	analysis.Rating = rating.String
	analysis.Recommendation = recommendation.String
	analysis.BudgetAssessment = budget.String
	analysis.TimelineAssessment = timeline.String

	unmarshalList(strengthsRaw, &analysis.Strengths)
	unmarshalList(gapsRaw, &analysis.Gaps)
	unmarshalList(opportunitiesRaw, &analysis.Opportunities)
	unmarshalList(risksRaw, &analysis.Risks)
	unmarshalList(actionsRaw, &analysis.ActionItems)
	if len(productsRaw) > 0 {
		_ = json.Unmarshal(productsRaw, &analysis.MatchingProducts)
	}

	return analysis, nil
}

// Upsert inserts the analysis or overwrites the existing row in place
func (a *AnalysisAdapter) Upsert(ctx context.Context, analysis *entities.TenderAnalysis) error {
	if analysis == nil {
		return apperrors.NewValidationError("analysis is required")
	}
	if analysis.ID == "" {
		analysis.ID = uuid.New().String()
	}

	strengths, _ := json.Marshal(analysis.Strengths)
	gaps, _ := json.Marshal(analysis.Gaps)
	opportunities, _ := json.Marshal(analysis.Opportunities)
	risks, _ := json.Marshal(analysis.Risks)
	actions, _ := json.Marshal(analysis.ActionItems)
	products, _ := json.Marshal(analysis.MatchingProducts)

	query := `
		INSERT INTO tender_analyses
			(id, user_id, tender_id, summary, match_percentage, rating,
			 recommendation, strengths, gaps, opportunities, risks,
			 action_items, budget_assessment, timeline_assessment,
			 matching_products, computed_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10::jsonb,
			 $11::jsonb, $12::jsonb, $13, $14, $15::jsonb, $16)
		ON CONFLICT (user_id, tender_id)
		DO UPDATE SET
			summary = EXCLUDED.summary,
			match_percentage = EXCLUDED.match_percentage,
			rating = EXCLUDED.rating,
			recommendation = EXCLUDED.recommendation,
			strengths = EXCLUDED.strengths,
			gaps = EXCLUDED.gaps,
			opportunities = EXCLUDED.opportunities,
			risks = EXCLUDED.risks,
			action_items = EXCLUDED.action_items,
			budget_assessment = EXCLUDED.budget_assessment,
			timeline_assessment = EXCLUDED.timeline_assessment,
			matching_products = EXCLUDED.matching_products,
			computed_at = EXCLUDED.computed_at
	`

	_, err := a.client.DB().ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.UserID,
		analysis.TenderID,
		analysis.Summary,
		analysis.MatchPercentage,
		analysis.Rating,
		analysis.Recommendation,
		string(strengths),
		string(gaps),
		string(opportunities),
		string(risks),
		string(actions),
		analysis.BudgetAssessment,
		analysis.TimelineAssessment,
		string(products),
		analysis.ComputedAt,
	)
	if err != nil {
		return apperrors.NewInternalError("failed to upsert analysis", err)
	}
	return nil
}

func unmarshalList(raw []byte, dst *[]string) {
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, dst)
	}
	if *dst == nil {
		*dst = []string{}
	}
}

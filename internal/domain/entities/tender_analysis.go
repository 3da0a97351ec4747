package entities

import (
	"time"
)

// ProductMatch is one matched capability item inside an analysis,
// with a per-item fit score produced by the generation backend.
type ProductMatch struct {
	Name  string `json:"name"`
	Score int    `json:"score"` // fit in [0,100]
	Note  string `json:"note,omitempty"`
}

// TenderAnalysis is the composite analysis result for one
// (user, tender) pair. Exactly one row exists per pair; regeneration
// overwrites it in place.
type TenderAnalysis struct {
	ID       string `json:"id" db:"id"`
	UserID   string `json:"user_id" db:"user_id"`
	TenderID string `json:"tender_id" db:"tender_id"`

	Summary            string         `json:"summary"`
	MatchPercentage    int            `json:"match_percentage"`
	Rating             string         `json:"rating"`
	Recommendation     string         `json:"recommendation"`
	Strengths          []string       `json:"strengths"`
	Gaps               []string       `json:"gaps"`
	Opportunities      []string       `json:"opportunities"`
	Risks              []string       `json:"risks"`
	ActionItems        []string       `json:"action_items"`
	BudgetAssessment   string         `json:"budget_assessment"`
	TimelineAssessment string         `json:"timeline_assessment"`
	MatchingProducts   []ProductMatch `json:"matching_products"`

	FromCache  bool      `json:"from_cache"`
	ComputedAt time.Time `json:"computed_at" db:"computed_at"`
}

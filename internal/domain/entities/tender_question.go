package entities

import (
	"time"
)

// Priority labels derived from a question's total score
const (
	PriorityHigh   = "HIGH"
	PriorityMedium = "MEDIUM"
	PriorityLow    = "LOW"
)

// TenderQuestion is one scored clarification question / issue raised
// against a tender. The five factors are each clamped to [0,3], so
// Total is always in [0,15]. Priority is a pure function of Total.
type TenderQuestion struct {
	ID       string `json:"id" db:"id"`
	UserID   string `json:"user_id" db:"user_id"`
	TenderID string `json:"tender_id" db:"tender_id"`

	Category string `json:"category" db:"category"`
	Question string `json:"question" db:"question"`

	KnockOutRisk    int `json:"knock_out_risk" db:"knock_out_risk"`
	ScoringImpact   int `json:"scoring_impact" db:"scoring_impact"`
	FinancialImpact int `json:"financial_impact" db:"financial_impact"`
	ScheduleImpact  int `json:"schedule_impact" db:"schedule_impact"`
	EvidenceBurden  int `json:"evidence_burden" db:"evidence_burden"`

	Total    int    `json:"total" db:"total"`
	Priority string `json:"priority" db:"priority"`

	Suggestion string `json:"suggestion" db:"suggestion"`
	// Position is the question's rank within the stored set; reading the
	// set back ordered by Position reproduces the scored ordering exactly.
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

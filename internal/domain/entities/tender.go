package entities

import (
	"time"
)

// Tender represents an ingested procurement document. It is created
// once at import and never mutated by the analysis pipeline.
type Tender struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	Title              string    `json:"title" db:"title"`
	Description        string    `json:"description" db:"description"`
	Categories         []string  `json:"categories" db:"categories"`
	Jurisdictions      []string  `json:"jurisdictions" db:"jurisdictions"` // e.g. country or CPV region codes
	Requirements       JSONMap   `json:"requirements" db:"requirements"`
	Specifications     JSONMap   `json:"specifications" db:"specifications"`
	EvaluationCriteria JSONMap   `json:"evaluation_criteria" db:"evaluation_criteria"`
	Deadlines          JSONMap   `json:"deadlines" db:"deadlines"`
	Budget             JSONMap   `json:"budget" db:"budget"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

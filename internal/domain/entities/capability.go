package entities

import (
	"time"
)

// Company represents an organization capability profile owned by a user
type Company struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Capabilities   []string  `json:"capabilities" db:"capabilities"`
	Specifications JSONMap   `json:"specifications" db:"specifications"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Product represents an item/product capability profile owned by a user
type Product struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	CompanyID      string    `json:"company_id" db:"company_id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	Features       []string  `json:"features" db:"features"`
	Specifications JSONMap   `json:"specifications" db:"specifications"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

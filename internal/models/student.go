package models

import "time"

// Student ("alumno") is identified by a unique normalized national ID.
type Student struct {
	ID         int64     `db:"id" json:"id"`
	NationalID string    `db:"national_id" json:"national_id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Email      *string   `db:"email" json:"email,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search   string
	Page     int
	PageSize int
}

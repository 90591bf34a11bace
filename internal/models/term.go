package models

import "time"

// Term ("cuatrimestre") is an academic half-year. Number is 1 or 2 within Year.
type Term struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Year      int       `db:"year" json:"year"`
	Number    int       `db:"number" json:"number"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TermFilter defines filters supported by the term list endpoint.
type TermFilter struct {
	Year   int
	Active *bool
}

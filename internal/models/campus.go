package models

import "time"

// DefaultCampusColor is the presentation tag given to campuses created on the fly during imports.
const DefaultCampusColor = "bg-blue-500"

// Campus ("sede") is a physical branch or a virtual location category.
type Campus struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

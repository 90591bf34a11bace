package models

import (
	"strings"
	"time"
)

// Instructor ("docente") is identified by a unique normalized national ID.
type Instructor struct {
	ID         int64     `db:"id" json:"id"`
	NationalID string    `db:"national_id" json:"national_id"`
	FirstName  string    `db:"first_name" json:"first_name"`
	LastName   string    `db:"last_name" json:"last_name"`
	Email      *string   `db:"email" json:"email,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins first and last name.
func (i Instructor) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// InstructorFilter captures filtering options for listing instructors.
type InstructorFilter struct {
	Search   string
	CampusID int64
	Page     int
	PageSize int
}

// InstructorModality is the derived working classification of an instructor.
type InstructorModality string

const (
	ModalityNoAssignments      InstructorModality = "NO_ASSIGNMENTS"
	ModalityInPersonAndVirtual InstructorModality = "IN_PERSON_AND_VIRTUAL"
	ModalityCampusVirtual      InstructorModality = "CAMPUS_VIRTUAL"
	ModalityRemote             InstructorModality = "REMOTE"
)

// InstructorView is the read projection returned by the instructor endpoints.
type InstructorView struct {
	Instructor
	Campuses        []Campus           `json:"campuses"`
	Assignments     []AssignmentDetail `json:"assignments"`
	Modality        InstructorModality `json:"modality"`
	Hours           int                `json:"hours"`
	Students        int                `json:"students"`
	ProjectionError string             `json:"projection_error,omitempty"`
}

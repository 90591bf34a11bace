package models

import "time"

// Modality is the delivery mode of a scheduled session.
type Modality string

const (
	ModalityVirtualMorning Modality = "virtual_morning"
	ModalityVirtualNight   Modality = "virtual_night"
	ModalityInPerson       Modality = "in_person"
	ModalityAsynchronous   Modality = "asynchronous"
)

// Valid reports whether the modality is one of the known values.
func (m Modality) Valid() bool {
	switch m {
	case ModalityVirtualMorning, ModalityVirtualNight, ModalityInPerson, ModalityAsynchronous:
		return true
	}
	return false
}

// Assignment ("asignación") is a session of a subject within a term. A nil CampusID means remote work.
type Assignment struct {
	ID               int64     `db:"id" json:"id"`
	SubjectID        int64     `db:"subject_id" json:"subject_id"`
	TermID           int64     `db:"term_id" json:"term_id"`
	InstructorID     *int64    `db:"instructor_id" json:"instructor_id,omitempty"`
	CampusID         *int64    `db:"campus_id" json:"campus_id,omitempty"`
	Modality         Modality  `db:"modality" json:"modality"`
	Day              *string   `db:"day" json:"day,omitempty"`
	StartTime        *string   `db:"start_time" json:"start_time,omitempty"`
	EndTime          *string   `db:"end_time" json:"end_time,omitempty"`
	ReceivesInPerson bool      `db:"receives_in_person" json:"receives_in_person"`
	Modified         bool      `db:"modified" json:"modified"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Scheduled reports whether the assignment occupies a slot subject to overlap rules.
func (a Assignment) Scheduled() bool {
	return a.Day != nil && *a.Day != "" && a.StartTime != nil && *a.StartTime != "" && a.Modality != ModalityAsynchronous
}

// AssignmentDetail enriches an assignment with the names used by listings, overlap reports and exports.
type AssignmentDetail struct {
	Assignment
	SubjectCode    string  `db:"subject_code" json:"subject_code"`
	SubjectName    string  `db:"subject_name" json:"subject_name"`
	MeetingLink    *string `db:"meeting_link" json:"meeting_link,omitempty"`
	InstructorName *string `db:"instructor_name" json:"instructor_name,omitempty"`
	CampusName     *string `db:"campus_name" json:"campus_name,omitempty"`
	TermName       string  `db:"term_name" json:"term_name"`
}

// AssignmentFilter describes query params for listing assignments.
type AssignmentFilter struct {
	TermID        int64
	SubjectID     int64
	InstructorID  int64
	ScheduledOnly bool
}

// AssignmentInput is the write payload shared by create and update.
type AssignmentInput struct {
	SubjectID        int64    `json:"subject_id" validate:"required,gt=0"`
	TermID           int64    `json:"term_id" validate:"required,gt=0"`
	InstructorID     *int64   `json:"instructor_id" validate:"omitempty,gt=0"`
	CampusID         *int64   `json:"campus_id" validate:"omitempty,gt=0"`
	Modality         Modality `json:"modality" validate:"required,oneof=virtual_morning virtual_night in_person asynchronous"`
	Day              *string  `json:"day"`
	StartTime        *string  `json:"start_time"`
	EndTime          *string  `json:"end_time"`
	ReceivesInPerson bool     `json:"receives_in_person"`
}

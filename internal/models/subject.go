package models

import "time"

// Subject ("cátedra") is identified by a unique c.<N> code. Its meeting link is shared by every
// assignment of the subject.
type Subject struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	MeetingLink *string   `db:"meeting_link" json:"meeting_link,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	Search   string
	Page     int
	PageSize int
}

// SubjectView is the list projection: the subject plus its assignments and enrolled count for a term.
type SubjectView struct {
	Subject
	Enrolled        int                `json:"enrolled"`
	Assignments     []AssignmentDetail `json:"assignments"`
	ProjectionError string             `json:"projection_error,omitempty"`
}

// SubjectStats summarises subjects and assignments, optionally scoped to a term.
type SubjectStats struct {
	Total        int `db:"total" json:"total"`
	Assignments  int `db:"assignments" json:"assignments"`
	Asynchronous int `db:"asynchronous" json:"asynchronous"`
	Staffed      int `db:"staffed" json:"staffed"`
	Unstaffed    int `db:"unstaffed" json:"unstaffed"`
	Enrolled     int `db:"enrolled" json:"enrolled"`
}

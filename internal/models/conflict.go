package models

// Severity ranks overlap reports.
type Severity string

const (
	// SeverityCritical marks two sessions of the same subject in one slot; they share a meeting link.
	SeverityCritical Severity = "CRITICAL"
	// SeverityHigh marks an instructor booked twice in one slot.
	SeverityHigh Severity = "HIGH"
)

// ConflictKind names the dimension two assignments collide on.
type ConflictKind string

const (
	ConflictSubject    ConflictKind = "SUBJECT"
	ConflictInstructor ConflictKind = "INSTRUCTOR"
)

// Conflict describes one offending pair of assignments, or a rejected write against an existing one.
type Conflict struct {
	Kind          ConflictKind `json:"kind"`
	Severity      Severity     `json:"severity"`
	Message       string       `json:"message"`
	TermID        int64        `json:"term_id"`
	Day           string       `json:"day"`
	StartTime     string       `json:"start_time"`
	AssignmentIDs []int64      `json:"assignment_ids"`
	SubjectCode   string       `json:"subject_code,omitempty"`
	MeetingLink   *string      `json:"meeting_link,omitempty"`
	InstructorID  *int64       `json:"instructor_id,omitempty"`
}

// OverlapReport is the result of a full overlap scan.
type OverlapReport struct {
	TermID    *int64     `json:"term_id,omitempty"`
	Scanned   int        `json:"scanned"`
	Critical  int        `json:"critical"`
	High      int        `json:"high"`
	Conflicts []Conflict `json:"conflicts"`
}

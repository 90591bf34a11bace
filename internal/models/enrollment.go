package models

import "time"

// Enrollment ("inscripción") registers a student to a subject within a term.
type Enrollment struct {
	ID        int64     `db:"id" json:"id"`
	StudentID int64     `db:"student_id" json:"student_id"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	TermID    int64     `db:"term_id" json:"term_id"`
	CourseID  *int64    `db:"course_id" json:"course_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// EnrollmentDetail enriches Enrollment with student and subject info.
type EnrollmentDetail struct {
	Enrollment
	StudentName       string  `db:"student_name" json:"student_name"`
	StudentNationalID string  `db:"student_national_id" json:"student_national_id"`
	SubjectCode       string  `db:"subject_code" json:"subject_code"`
	CourseName        *string `db:"course_name" json:"course_name,omitempty"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID int64
	SubjectID int64
	TermID    int64
	Page      int
	PageSize  int
}

package models

import "time"

// Course ("curso") is a program offering, optionally tied to a campus.
type Course struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CampusID  *int64    `db:"campus_id" json:"campus_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail adds the campus name to a course.
type CourseDetail struct {
	Course
	CampusName *string `db:"campus_name" json:"campus_name,omitempty"`
}

// CourseFilter defines filter criteria for listing courses.
type CourseFilter struct {
	CampusID int64
	Search   string
}

// Shift ("turno") tags a subject offering within a course.
type Shift string

const (
	ShiftMorning Shift = "MORNING"
	ShiftNight   Shift = "NIGHT"
	ShiftVirtual Shift = "VIRTUAL"
)

// SubjectCourse links a subject to a course with an optional shift and campus override.
type SubjectCourse struct {
	ID        int64     `db:"id" json:"id"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	CourseID  int64     `db:"course_id" json:"course_id"`
	Shift     *Shift    `db:"shift" json:"shift,omitempty"`
	CampusID  *int64    `db:"campus_id" json:"campus_id,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SubjectCourseDetail enriches a link with descriptive fields.
type SubjectCourseDetail struct {
	SubjectCourse
	SubjectCode string  `db:"subject_code" json:"subject_code"`
	SubjectName string  `db:"subject_name" json:"subject_name"`
	CourseName  string  `db:"course_name" json:"course_name"`
	CampusName  *string `db:"campus_name" json:"campus_name,omitempty"`
}

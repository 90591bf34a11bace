package models

// ImportKind selects one of the spreadsheet ingestion pipelines.
type ImportKind string

const (
	ImportSubjects       ImportKind = "subjects"
	ImportCourses        ImportKind = "courses"
	ImportInstructors    ImportKind = "instructors"
	ImportEnrollments    ImportKind = "enrollments"
	ImportSubjectCourses ImportKind = "subject-courses"
	ImportMeetingLinks   ImportKind = "meeting-links"
)

// ImportKinds lists every pipeline in routing order.
var ImportKinds = []ImportKind{
	ImportSubjects, ImportCourses, ImportInstructors, ImportEnrollments, ImportSubjectCourses, ImportMeetingLinks,
}

// ParseImportKind validates a kind from a path segment or CLI flag.
func ParseImportKind(v string) (ImportKind, bool) {
	for _, k := range ImportKinds {
		if string(k) == v {
			return k, true
		}
	}
	return "", false
}

// RowError is a recoverable per-row failure. Row is the 1-based spreadsheet row; the header is row 1.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportOptions carries caller-supplied context for a pipeline run.
type ImportOptions struct {
	TermID      int64
	SubjectCode string
}

// ImportResult tallies the outcome of a pipeline run.
type ImportResult struct {
	Kind       ImportKind     `json:"kind"`
	Sheet      string         `json:"sheet"`
	Rows       int            `json:"rows"`
	Created    int            `json:"created"`
	Updated    int            `json:"updated"`
	Skipped    int            `json:"skipped"`
	Omitted    int            `json:"omitted"`
	Errors     []RowError     `json:"errors"`
	ErrorCount int            `json:"error_count"`
	Details    map[string]int `json:"details,omitempty"`

	maxErrors int
}

// NewImportResult prepares an empty tally keeping at most maxErrors row errors.
func NewImportResult(kind ImportKind, maxErrors int) *ImportResult {
	if maxErrors <= 0 {
		maxErrors = 20
	}
	return &ImportResult{Kind: kind, Errors: []RowError{}, maxErrors: maxErrors}
}

// AddError counts a row failure and keeps it while the list has room.
func (r *ImportResult) AddError(row int, message string) {
	r.ErrorCount++
	if len(r.Errors) < r.maxErrors {
		r.Errors = append(r.Errors, RowError{Row: row, Message: message})
	}
}

// AddDetail increments a named secondary counter.
func (r *ImportResult) AddDetail(key string) {
	if r.Details == nil {
		r.Details = map[string]int{}
	}
	r.Details[key]++
}

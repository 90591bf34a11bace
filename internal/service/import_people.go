package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/noah-isme/iea-horarios-api/internal/classify"
	"github.com/noah-isme/iea-horarios-api/internal/models"
	appErrors "github.com/noah-isme/iea-horarios-api/pkg/errors"
	"github.com/noah-isme/iea-horarios-api/pkg/spreadsheet"
)

// personRow is the normalized content of a people sheet row.
type personRow struct {
	nationalID string
	firstName  string
	lastName   string
	email      string
	campus     string
	course     string
}

// peopleLayout resolves the column map of a people sheet. Header-less sheets use the positional layout
// and their first row is data.
func peopleLayout(sheet *spreadsheet.Sheet) (classify.ColumnMap, []spreadsheet.RawRow) {
	if cols := classify.RecognizeHeaders(sheet.Headers()); len(cols) > 0 {
		if _, ok := cols.Index(classify.ColumnNationalID); !ok {
			cols[classify.ColumnNationalID] = 0
		}
		return cols, sheet.Rows
	}
	rows := sheet.Rows
	if !sheet.Header.Blank() {
		rows = append([]spreadsheet.RawRow{sheet.Header}, rows...)
	}
	return classify.PositionalColumns(), rows
}

func parsePerson(cols classify.ColumnMap, row spreadsheet.RawRow) (personRow, error) {
	values := row.Values()
	rawID := cols.Cell(values, classify.ColumnNationalID)
	id, ok := classify.NormalizeNationalID(rawID)
	if !ok {
		if rawID == "" {
			return personRow{}, fmt.Errorf("missing national ID")
		}
		return personRow{}, fmt.Errorf("invalid national ID %q", rawID)
	}

	p := personRow{
		nationalID: id,
		email:      strings.ToLower(cols.Cell(values, classify.ColumnEmail)),
		campus:     cols.Cell(values, classify.ColumnCampus),
		course:     cols.Cell(values, classify.ColumnCourse),
	}
	if full := cols.Cell(values, classify.ColumnFullName); full != "" {
		p.firstName, p.lastName = classify.SplitFullName(full)
	} else if reversed := cols.Cell(values, classify.ColumnReversedName); reversed != "" {
		p.firstName, p.lastName = classify.SplitReversedName(reversed)
	}
	if first := cols.Cell(values, classify.ColumnFirstName); first != "" && p.firstName == "" {
		p.firstName = classify.TitleCase(first)
	}
	if last := cols.Cell(values, classify.ColumnLastName); last != "" && p.lastName == "" {
		p.lastName = classify.TitleCase(last)
	}
	return p, nil
}

// importInstructors creates instructors or merges non-empty incoming fields into existing ones.
func (r *importRun) importInstructors(ctx context.Context, sheet *spreadsheet.Sheet) error {
	stores := r.svc.stores
	cols, rows := peopleLayout(sheet)
	for _, row := range rows {
		r.result.Rows++
		p, err := parsePerson(cols, row)
		if err != nil {
			r.result.AddError(row.Number, err.Error())
			continue
		}

		existing, err := stores.Instructors.FindByNationalID(ctx, p.nationalID)
		var instructorID int64
		switch {
		case err == nil:
			if mergeInstructor(existing, p) {
				if err := stores.Instructors.Update(ctx, nil, existing); err != nil {
					return err
				}
				r.result.Updated++
			} else {
				r.result.Skipped++
			}
			instructorID = existing.ID
		case notFound(err):
			if p.firstName == "" && p.lastName == "" {
				r.result.AddError(row.Number, fmt.Sprintf("instructor %s has no name", p.nationalID))
				continue
			}
			instructor := &models.Instructor{NationalID: p.nationalID, FirstName: p.firstName, LastName: p.lastName, Email: optionalString(p.email)}
			if err := stores.Instructors.Create(ctx, nil, instructor); err != nil {
				return err
			}
			r.result.Created++
			instructorID = instructor.ID
		default:
			return err
		}

		if p.campus != "" {
			campusID, err := r.resolveCampus(ctx, p.campus, false)
			if err != nil {
				return err
			}
			if campusID == nil {
				continue
			}
			if err := stores.Instructors.AddCampus(ctx, nil, instructorID, *campusID); err != nil {
				return err
			}
		}
	}
	return nil
}

func mergeInstructor(existing *models.Instructor, p personRow) bool {
	changed := false
	if p.firstName != "" && p.firstName != existing.FirstName {
		existing.FirstName = p.firstName
		changed = true
	}
	if p.lastName != "" && p.lastName != existing.LastName {
		existing.LastName = p.lastName
		changed = true
	}
	if p.email != "" && (existing.Email == nil || *existing.Email != p.email) {
		email := p.email
		existing.Email = &email
		changed = true
	}
	return changed
}

// importEnrollments creates students on the fly and enrolls them in the caller's subject, or in the subject
// whose code appears in the course column.
func (r *importRun) importEnrollments(ctx context.Context, sheet *spreadsheet.Sheet, opts models.ImportOptions) error {
	stores := r.svc.stores
	term, err := r.enrollmentTerm(ctx, opts.TermID)
	if err != nil {
		return err
	}

	var fixed *models.Subject
	if opts.SubjectCode != "" {
		code, ok := classify.NormalizeSubjectCode(opts.SubjectCode)
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid subject code %q", opts.SubjectCode))
		}
		fixed, err = stores.Subjects.FindByCode(ctx, code)
		if err != nil {
			if notFound(err) {
				return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("subject %s not found", code))
			}
			return err
		}
	}

	cols, rows := peopleLayout(sheet)
	subjectsByCode := map[string]*models.Subject{}
	for _, row := range rows {
		r.result.Rows++
		p, err := parsePerson(cols, row)
		if err != nil {
			r.result.AddError(row.Number, err.Error())
			continue
		}

		student, err := stores.Students.FindByNationalID(ctx, p.nationalID)
		if err != nil {
			if !notFound(err) {
				return err
			}
			student = &models.Student{NationalID: p.nationalID, FirstName: p.firstName, LastName: p.lastName, Email: optionalString(p.email)}
			if err := stores.Students.Create(ctx, nil, student); err != nil {
				return err
			}
			r.result.AddDetail(detailStudentsCreated)
		}

		subject := fixed
		if subject == nil {
			code, ok := classify.FindSubjectCode(p.course)
			if !ok {
				r.result.AddError(row.Number, "no subject code for enrollment")
				continue
			}
			if cached, seen := subjectsByCode[code]; seen {
				subject = cached
			} else {
				subject, err = stores.Subjects.FindByCode(ctx, code)
				if err != nil && !notFound(err) {
					return err
				}
				subjectsByCode[code] = subject
			}
			if subject == nil {
				r.result.AddError(row.Number, fmt.Sprintf("subject %s not found", code))
				continue
			}
		}

		exists, err := stores.Enrollments.Exists(ctx, student.ID, subject.ID, term.ID)
		if err != nil {
			return err
		}
		if exists {
			r.result.Skipped++
			continue
		}

		enrollment := &models.Enrollment{StudentID: student.ID, SubjectID: subject.ID, TermID: term.ID}
		if p.course != "" {
			if err := r.loadCourses(ctx); err != nil {
				return err
			}
			if course := r.courseNamed(p.course); course != nil {
				enrollment.CourseID = &course.ID
			}
		}
		if err := stores.Enrollments.Create(ctx, nil, enrollment); err != nil {
			return err
		}
		r.result.Created++
	}
	return nil
}

func (r *importRun) enrollmentTerm(ctx context.Context, termID int64) (*models.Term, error) {
	terms := r.svc.stores.Terms
	if termID > 0 {
		term, err := terms.FindByID(ctx, termID)
		if err != nil {
			if notFound(err) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "term not found")
			}
			return nil, err
		}
		return term, nil
	}
	term, err := terms.FindActive(ctx)
	if err != nil {
		if notFound(err) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "no active term; pass term_id")
		}
		return nil, err
	}
	return term, nil
}

package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/noah-isme/iea-horarios-api/internal/classify"
	"github.com/noah-isme/iea-horarios-api/internal/models"
	"github.com/noah-isme/iea-horarios-api/pkg/spreadsheet"
)

var (
	shiftSuffix    = regexp.MustCompile(`-\s*(tm|tn|manana|noche|virtual|online)\s*$`)
	meetingDomains = []string{"http", "zoom.us", "meet.google", "teams.microsoft", "teams.live", "webex"}
)

var shiftTokens = map[string]models.Shift{
	"tm":      models.ShiftMorning,
	"manana":  models.ShiftMorning,
	"tn":      models.ShiftNight,
	"noche":   models.ShiftNight,
	"virtual": models.ShiftVirtual,
	"online":  models.ShiftVirtual,
}

// importSubjects creates or renames subjects. Rows without a recognizable code are skipped.
func (r *importRun) importSubjects(ctx context.Context, sheet *spreadsheet.Sheet) error {
	stores := r.svc.stores
	for _, row := range sheet.Rows {
		r.result.Rows++
		code, name, ok := classify.SubjectRow(row.Values())
		if !ok {
			r.result.Skipped++
			continue
		}

		existing, err := stores.Subjects.FindByCode(ctx, code)
		switch {
		case err == nil:
			if name != "" && name != existing.Name {
				existing.Name = name
				if err := stores.Subjects.Update(ctx, nil, existing); err != nil {
					return err
				}
				r.result.Updated++
			} else {
				r.result.Skipped++
			}
		case notFound(err):
			if name == "" {
				name = classify.DefaultSubjectName(code)
			}
			if err := stores.Subjects.Create(ctx, nil, &models.Subject{Code: code, Name: name}); err != nil {
				return err
			}
			r.result.Created++
		default:
			return err
		}
	}
	return nil
}

// importCourses reads "campus hint | course name" rows. Denylisted names are omitted.
func (r *importRun) importCourses(ctx context.Context, sheet *spreadsheet.Sheet) error {
	if err := r.loadCourses(ctx); err != nil {
		return err
	}
	for _, row := range sheet.Rows {
		r.result.Rows++
		cells := row.NonEmpty()
		if len(cells) == 0 {
			r.result.Skipped++
			continue
		}
		hint, name := cells[0], cells[0]
		if len(cells) > 1 {
			name = cells[1]
		}
		if deniedCourse(name) {
			r.result.Omitted++
			continue
		}
		if r.courseNamed(name) != nil {
			r.result.Skipped++
			continue
		}

		var campusID *int64
		var err error
		if len(cells) > 1 {
			campusID, err = r.resolveCampus(ctx, hint, true)
		} else {
			campusID, err = r.resolveCampus(ctx, name, false)
		}
		if err != nil {
			return err
		}
		if _, _, err := r.ensureCourse(ctx, name, campusID); err != nil {
			return err
		}
		r.result.Created++
	}
	return nil
}

// importSubjectCourses reads "code | c.<N> name [- shift] | course | campus" rows.
func (r *importRun) importSubjectCourses(ctx context.Context, sheet *spreadsheet.Sheet) error {
	stores := r.svc.stores
	for _, row := range sheet.Rows {
		r.result.Rows++
		code, ok := classify.NormalizeSubjectCode(row.Text(0))
		if !ok {
			code, ok = classify.FindSubjectCode(row.Text(1))
		}
		if !ok {
			r.result.AddError(row.Number, "no subject code found")
			continue
		}
		courseName := row.Text(2)
		if courseName == "" {
			r.result.AddError(row.Number, fmt.Sprintf("subject %s has no course name", code))
			continue
		}

		subject, err := stores.Subjects.FindByCode(ctx, code)
		if err != nil {
			if notFound(err) {
				r.result.AddError(row.Number, fmt.Sprintf("subject %s not found", code))
				continue
			}
			return err
		}

		var shift *models.Shift
		if m := shiftSuffix.FindStringSubmatch(classify.Fold(row.Text(1))); m != nil {
			v := shiftTokens[m[1]]
			shift = &v
		}

		campusID, err := r.resolveCampus(ctx, row.Text(3), true)
		if err != nil {
			return err
		}
		course, created, err := r.ensureCourse(ctx, courseName, campusID)
		if err != nil {
			return err
		}
		if created {
			r.result.AddDetail(detailCoursesCreated)
		}

		exists, err := stores.Courses.LinkExists(ctx, subject.ID, course.ID, shift)
		if err != nil {
			return err
		}
		if exists {
			r.result.Skipped++
			continue
		}
		link := &models.SubjectCourse{SubjectID: subject.ID, CourseID: course.ID, Shift: shift, CampusID: campusID}
		if err := stores.Courses.CreateLink(ctx, nil, link); err != nil {
			return err
		}
		r.result.Created++
	}
	return nil
}

// importMeetingLinks sets the shared meeting link of the subject named in each row.
func (r *importRun) importMeetingLinks(ctx context.Context, sheet *spreadsheet.Sheet) error {
	stores := r.svc.stores
	for _, row := range sheet.Rows {
		r.result.Rows++
		var code, link string
		for _, cell := range row.NonEmpty() {
			if link == "" && looksLikeMeetingLink(cell) {
				link = normalizeLink(cell)
				continue
			}
			if code == "" {
				if c, ok := classify.FindSubjectCode(cell); ok {
					code = c
				}
			}
		}
		if code == "" {
			r.result.Skipped++
			continue
		}
		if link == "" {
			r.result.AddError(row.Number, fmt.Sprintf("subject %s has no meeting link", code))
			continue
		}

		subject, err := stores.Subjects.FindByCode(ctx, code)
		if err != nil {
			if notFound(err) {
				r.result.AddError(row.Number, fmt.Sprintf("subject %s not found", code))
				continue
			}
			return err
		}
		if subject.MeetingLink != nil && *subject.MeetingLink == link {
			r.result.Skipped++
			continue
		}
		subject.MeetingLink = &link
		if err := stores.Subjects.Update(ctx, nil, subject); err != nil {
			return err
		}
		r.result.Updated++
	}
	return nil
}

func looksLikeMeetingLink(cell string) bool {
	lowered := strings.ToLower(cell)
	for _, d := range meetingDomains {
		if strings.Contains(lowered, d) {
			return true
		}
	}
	return false
}

func normalizeLink(cell string) string {
	link := strings.TrimSpace(cell)
	if !strings.Contains(strings.ToLower(link), "http") {
		link = "https://" + link
	}
	return link
}

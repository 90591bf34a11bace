package service

import (
	"fmt"
	"sort"

	"github.com/noah-isme/iea-horarios-api/internal/classify"
	"github.com/noah-isme/iea-horarios-api/internal/models"
)

// SubjectConflict describes why candidate cannot take its slot given the subject's other sessions in
// that slot. It returns nil when existing holds no scheduled session.
func SubjectConflict(candidate models.Assignment, subjectCode string, existing []models.AssignmentDetail) *models.Conflict {
	if !candidate.Scheduled() {
		return nil
	}
	ids := []int64{}
	for _, other := range existing {
		if other.ID == candidate.ID || !other.Scheduled() {
			continue
		}
		ids = append(ids, other.ID)
	}
	if len(ids) == 0 {
		return nil
	}
	day, start := *candidate.Day, *candidate.StartTime
	return &models.Conflict{
		Kind:          models.ConflictSubject,
		Severity:      models.SeverityCritical,
		Message:       fmt.Sprintf("subject %s already has a session on %s at %s", subjectCode, day, start),
		TermID:        candidate.TermID,
		Day:           day,
		StartTime:     start,
		AssignmentIDs: ids,
		SubjectCode:   subjectCode,
		MeetingLink:   existing[0].MeetingLink,
	}
}

type slotKey struct {
	termID int64
	day    string
	start  string
}

type pairKey struct {
	low, high int64
}

func newPairKey(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// DetectOverlaps reports every unordered pair of scheduled, non-asynchronous assignments sharing a term,
// day and start time. Pairs of the same subject are CRITICAL; pairs of different subjects taught by the
// same instructor are HIGH; any other shared slot is not a conflict. Each pair is reported once.
func DetectOverlaps(assignments []models.AssignmentDetail) []models.Conflict {
	groups := map[slotKey][]models.AssignmentDetail{}
	var keys []slotKey
	for _, a := range assignments {
		if !a.Scheduled() {
			continue
		}
		key := slotKey{termID: a.TermID, day: *a.Day, start: *a.StartTime}
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], a)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].termID != keys[j].termID {
			return keys[i].termID < keys[j].termID
		}
		if di, dj := classify.DayIndex(keys[i].day), classify.DayIndex(keys[j].day); di != dj {
			return di < dj
		}
		return keys[i].start < keys[j].start
	})

	seen := map[pairKey]struct{}{}
	conflicts := []models.Conflict{}
	for _, key := range keys {
		slot := groups[key]
		for i := 0; i < len(slot); i++ {
			for j := i + 1; j < len(slot); j++ {
				a, b := slot[i], slot[j]
				if a.ID == b.ID {
					continue
				}
				pk := newPairKey(a.ID, b.ID)
				if _, dup := seen[pk]; dup {
					continue
				}
				if c, ok := classifyPair(key, a, b); ok {
					seen[pk] = struct{}{}
					c.AssignmentIDs = []int64{pk.low, pk.high}
					conflicts = append(conflicts, c)
				}
			}
		}
	}
	return conflicts
}

func classifyPair(key slotKey, a, b models.AssignmentDetail) (models.Conflict, bool) {
	base := models.Conflict{TermID: key.termID, Day: key.day, StartTime: key.start}
	switch {
	case a.SubjectID == b.SubjectID:
		base.Kind = models.ConflictSubject
		base.Severity = models.SeverityCritical
		base.SubjectCode = a.SubjectCode
		base.MeetingLink = a.MeetingLink
		link := "its meeting link"
		if a.MeetingLink != nil && *a.MeetingLink != "" {
			link = *a.MeetingLink
		}
		base.Message = fmt.Sprintf("subject %s has two sessions on %s at %s sharing %s", a.SubjectCode, key.day, key.start, link)
		return base, true
	case a.InstructorID != nil && b.InstructorID != nil && *a.InstructorID == *b.InstructorID:
		base.Kind = models.ConflictInstructor
		base.Severity = models.SeverityHigh
		id := *a.InstructorID
		base.InstructorID = &id
		name := fmt.Sprintf("#%d", id)
		if a.InstructorName != nil && *a.InstructorName != "" {
			name = *a.InstructorName
		}
		base.Message = fmt.Sprintf("instructor %s is booked on %s at %s for both %s and %s", name, key.day, key.start, a.SubjectCode, b.SubjectCode)
		return base, true
	}
	return models.Conflict{}, false
}

// SummarizeOverlaps wraps a detection run into a report.
func SummarizeOverlaps(termID *int64, scanned int, conflicts []models.Conflict) *models.OverlapReport {
	report := &models.OverlapReport{TermID: termID, Scanned: scanned, Conflicts: conflicts}
	for _, c := range conflicts {
		switch c.Severity {
		case models.SeverityCritical:
			report.Critical++
		case models.SeverityHigh:
			report.High++
		}
	}
	return report
}

// DeriveInstructorModality classifies an instructor from its current assignments. The in-person check
// takes priority over the campus check.
func DeriveInstructorModality(assignments []models.AssignmentDetail) models.InstructorModality {
	if len(assignments) == 0 {
		return models.ModalityNoAssignments
	}
	for _, a := range assignments {
		if a.ReceivesInPerson {
			return models.ModalityInPersonAndVirtual
		}
	}
	for _, a := range assignments {
		if a.CampusID != nil {
			return models.ModalityCampusVirtual
		}
	}
	return models.ModalityRemote
}

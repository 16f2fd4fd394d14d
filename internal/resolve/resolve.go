// Package resolve turns collections into id → display label lookups so foreign keys
// embedded in other records can be shown by name.
package resolve

import (
	"fmt"
	"strings"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

const (
	UnknownTeacher = "Unknown Teacher"
	UnknownSchool  = "Unknown School"
	UnknownClass   = "Class not found"
	UnknownStudent = "Unknown Student"

	// NotApplicable labels an optional reference that was left empty.
	NotApplicable = "N/A"
)

// Resolver maps ids to labels. Lookups never fail: a missing id yields the
// resolver's sentinel.
type Resolver struct {
	labels  map[int64]string
	unknown string
}

// Build indexes items in one pass. Items without an id are skipped; duplicate ids keep
// the first label seen.
func Build[T any](items []T, id func(T) int64, label func(T) string, unknown string) *Resolver {
	labels := make(map[int64]string, len(items))
	for _, item := range items {
		key := id(item)
		if key == 0 {
			continue
		}
		if _, seen := labels[key]; seen {
			continue
		}
		labels[key] = label(item)
	}
	return &Resolver{labels: labels, unknown: unknown}
}

// FromRaw indexes untyped records, reading the identifying field through the
// alias table for entity.
func FromRaw(raws []records.Raw, entity records.Entity, label func(records.Raw) string, unknown string) *Resolver {
	return Build(raws, func(r records.Raw) int64 { return r.ID(entity, records.FieldID) }, label, unknown)
}

// Label returns the display label for id, or the sentinel when id is unknown.
func (r *Resolver) Label(id int64) string {
	if r == nil {
		return "Unknown"
	}
	if label, ok := r.labels[id]; ok && label != "" {
		return label
	}
	return r.unknown
}

// LabelOptional is Label for optional references: an empty reference reads "N/A"
// rather than the unknown sentinel.
func (r *Resolver) LabelOptional(id int64) string {
	if id == 0 {
		return NotApplicable
	}
	return r.Label(id)
}

func TeacherLabel(t records.Teacher) string {
	return strings.TrimSpace(t.GivenName + " " + t.Surname)
}

func SchoolLabel(s records.School) string {
	code := s.Code
	if code == "" {
		code = NotApplicable
	}
	return fmt.Sprintf("%s (%s)", s.Name, code)
}

func ClassLabel(c records.ScheduledClass) string {
	if c.Date.IsZero() {
		return c.Subject
	}
	return fmt.Sprintf("%s - %s", c.Subject, c.Date.Format("2006-01-02"))
}

func StudentLabel(s records.Student) string {
	if s.Name != "" {
		return s.Name
	}
	return s.EnrollmentCode
}

func Teachers(items []records.Teacher) *Resolver {
	return Build(items, func(t records.Teacher) int64 { return t.ID }, TeacherLabel, UnknownTeacher)
}

// RawTeachers labels teachers straight from the backend records, for pages that
// only need names.
func RawTeachers(raws []records.Raw) *Resolver {
	return FromRaw(raws, records.EntityTeacher, func(r records.Raw) string {
		return TeacherLabel(records.Teacher{
			GivenName: r.String(records.EntityTeacher, records.FieldName),
			Surname:   r.String(records.EntityTeacher, records.FieldSurname),
		})
	}, UnknownTeacher)
}

func Schools(items []records.School) *Resolver {
	return Build(items, func(s records.School) int64 { return s.ID }, SchoolLabel, UnknownSchool)
}

func Classes(items []records.ScheduledClass) *Resolver {
	return Build(items, func(c records.ScheduledClass) int64 { return c.ID }, ClassLabel, UnknownClass)
}

func Students(items []records.Student) *Resolver {
	return Build(items, func(s records.Student) int64 { return s.ID }, StudentLabel, UnknownStudent)
}

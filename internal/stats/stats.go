// Package stats computes the summary numbers shown above each list. Every function
// returns finite values: a zero denominator yields 0.
package stats

import (
	"math"
	"time"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

// Average returns the arithmetic mean of values, or 0 for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return finite(sum / float64(len(values)))
}

// Percentage returns round(numerator / denominator * 100), or 0 when denominator <= 0.
func Percentage(numerator, denominator float64) int {
	if denominator <= 0 {
		return 0
	}
	return int(math.Round(finite(numerator / denominator * 100)))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(finite(v)*10) / 10
}

func Count[T any](items []T, pred func(T) bool) int {
	n := 0
	for _, item := range items {
		if pred(item) {
			n++
		}
	}
	return n
}

func Sum[T any](items []T, value func(T) float64) float64 {
	var total float64
	for _, item := range items {
		total += value(item)
	}
	return finite(total)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// WeekWindow returns the calendar week containing now: from the most recent Sunday
// (weekday 0) through the following Saturday, both at midnight in now's location.
func WeekWindow(now time.Time) (start, end time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = day.AddDate(0, 0, -int(day.Weekday()))
	end = start.AddDate(0, 0, 6)
	return start, end
}

// InWeek reports whether date's calendar day falls within the closed week window of now.
// A zero date is never in the window.
func InWeek(date, now time.Time) bool {
	if date.IsZero() {
		return false
	}
	start, end := WeekWindow(now)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	return !day.Before(start) && !day.After(end)
}

type GradeStatus string

const (
	GradeApproved GradeStatus = "Approved"
	GradeFailed   GradeStatus = "Failed"
	GradePending  GradeStatus = "Pending"
)

// ApprovalThreshold is the minimum score counted as approved.
const ApprovalThreshold = 70

// StatusOf classifies a score: >= 70 approved, [1, 70) failed, anything else
// (including an absent score) pending.
func StatusOf(score *float64) GradeStatus {
	if score == nil {
		return GradePending
	}
	switch s := *score; {
	case s >= ApprovalThreshold:
		return GradeApproved
	case s >= 1:
		return GradeFailed
	default:
		return GradePending
	}
}

type ActivityStats struct {
	Total           int     `json:"total"`
	Visited         int     `json:"visited"`
	Invited         int     `json:"invited"`
	Digital         int     `json:"digital"`
	StudentsReached int     `json:"students_reached"`
	AverageReach    float64 `json:"average_reach"`
}

func Activities(items []records.Activity) ActivityStats {
	ofType := func(kind records.ActivityType) int {
		return Count(items, func(a records.Activity) bool { return a.Type == kind })
	}
	reach := make([]float64, 0, len(items))
	for _, a := range items {
		reach = append(reach, float64(a.StudentsReached))
	}
	return ActivityStats{
		Total:           len(items),
		Visited:         ofType(records.ActivityVisited),
		Invited:         ofType(records.ActivityInvited),
		Digital:         ofType(records.ActivityDigital),
		StudentsReached: int(Sum(items, func(a records.Activity) float64 { return float64(a.StudentsReached) })),
		AverageReach:    Round1(Average(reach)),
	}
}

type ClassStats struct {
	Total        int `json:"total"`
	Scheduled    int `json:"scheduled"`
	Completed    int `json:"completed"`
	Cancelled    int `json:"cancelled"`
	ThisWeek     int `json:"this_week"`
	Enrolled     int `json:"enrolled"`
	Capacity     int `json:"capacity"`
	OccupancyPct int `json:"occupancy_pct"`
}

func Classes(items []records.ScheduledClass, now time.Time) ClassStats {
	ofStatus := func(status records.ClassStatus) int {
		return Count(items, func(c records.ScheduledClass) bool { return c.Status == status })
	}
	enrolled := Sum(items, func(c records.ScheduledClass) float64 { return float64(c.Enrolled) })
	capacity := Sum(items, func(c records.ScheduledClass) float64 { return float64(c.Capacity) })
	return ClassStats{
		Total:        len(items),
		Scheduled:    ofStatus(records.ClassScheduled),
		Completed:    ofStatus(records.ClassCompleted),
		Cancelled:    ofStatus(records.ClassCancelled),
		ThisWeek:     Count(items, func(c records.ScheduledClass) bool { return InWeek(c.Date, now) }),
		Enrolled:     int(enrolled),
		Capacity:     int(capacity),
		OccupancyPct: Percentage(enrolled, capacity),
	}
}

type StudentStats struct {
	Total         int `json:"total"`
	Accepted      int `json:"accepted"`
	AcceptancePct int `json:"acceptance_pct"`
	WithSchool    int `json:"with_school"`
}

func Students(items []records.Student) StudentStats {
	accepted := Count(items, func(s records.Student) bool { return s.Accepted })
	return StudentStats{
		Total:         len(items),
		Accepted:      accepted,
		AcceptancePct: Percentage(float64(accepted), float64(len(items))),
		WithSchool:    Count(items, func(s records.Student) bool { return s.SchoolID != 0 }),
	}
}

type GradeStats struct {
	Total       int     `json:"total"`
	Approved    int     `json:"approved"`
	Failed      int     `json:"failed"`
	Pending     int     `json:"pending"`
	Average     float64 `json:"average"`
	ApprovalPct int     `json:"approval_pct"`
}

// Grades summarizes grades. The average covers every numeric score, pending ones
// included; only absent scores are left out.
func Grades(items []records.Grade) GradeStats {
	out := GradeStats{Total: len(items)}
	scores := make([]float64, 0, len(items))
	for _, g := range items {
		switch StatusOf(g.Score) {
		case GradeApproved:
			out.Approved++
		case GradeFailed:
			out.Failed++
		default:
			out.Pending++
		}
		if g.Score != nil {
			scores = append(scores, *g.Score)
		}
	}
	out.Average = Round1(Average(scores))
	out.ApprovalPct = Percentage(float64(out.Approved), float64(out.Approved+out.Failed))
	return out
}

type AttendanceStats struct {
	Records       int `json:"records"`
	Present       int `json:"present"`
	Roster        int `json:"roster"`
	AttendancePct int `json:"attendance_pct"`
}

func Attendance(items []records.AttendanceRecord) AttendanceStats {
	present := Sum(items, func(r records.AttendanceRecord) float64 { return float64(len(r.PresentStudentIDs)) })
	roster := Sum(items, func(r records.AttendanceRecord) float64 { return float64(r.TotalStudents) })
	return AttendanceStats{
		Records:       len(items),
		Present:       int(present),
		Roster:        int(roster),
		AttendancePct: Percentage(present, roster),
	}
}

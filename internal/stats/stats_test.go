package stats

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

func score(v float64) *float64 { return &v }

func TestStatusOfThresholds(t *testing.T) {
	cases := []struct {
		score *float64
		want  GradeStatus
	}{
		{score(0), GradePending},
		{score(0.5), GradePending},
		{score(1), GradeFailed},
		{score(69), GradeFailed},
		{score(69.9), GradeFailed},
		{score(70), GradeApproved},
		{score(100), GradeApproved},
		{nil, GradePending},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusOf(tc.score))
	}
}

func TestAverageAndPercentageEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 0.0, Average([]float64{}))
	assert.Equal(t, 2.0, Average([]float64{1, 2, 3}))

	for _, x := range []float64{0, 1, 57, -3, math.MaxFloat64} {
		assert.Equal(t, 0, Percentage(x, 0))
	}
	assert.Equal(t, 33, Percentage(1, 3))
	assert.Equal(t, 67, Percentage(2, 3))
	assert.Equal(t, 100, Percentage(4, 4))
}

func TestWeekWindowStartsOnSunday(t *testing.T) {
	// Wednesday 2024-05-08.
	now := time.Date(2024, 5, 8, 15, 30, 0, 0, time.UTC)
	start, end := WeekWindow(now)
	assert.Equal(t, time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2024, 5, 11, 0, 0, 0, 0, time.UTC), end)

	// A Sunday is its own week start.
	sunday := time.Date(2024, 5, 5, 8, 0, 0, 0, time.UTC)
	start, _ = WeekWindow(sunday)
	assert.Equal(t, time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), start)
}

func TestInWeekIsClosedInterval(t *testing.T) {
	now := time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)
	assert.True(t, InWeek(time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), now))
	assert.True(t, InWeek(time.Date(2024, 5, 11, 23, 59, 0, 0, time.UTC), now))
	assert.False(t, InWeek(time.Date(2024, 5, 4, 23, 59, 0, 0, time.UTC), now))
	assert.False(t, InWeek(time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC), now))
	assert.False(t, InWeek(time.Time{}, now))
}

func TestClassesStats(t *testing.T) {
	now := time.Date(2024, 5, 8, 12, 0, 0, 0, time.UTC)
	classes := []records.ScheduledClass{
		{ID: 1, Status: records.ClassScheduled, Date: time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC), Capacity: 20, Enrolled: 10},
		{ID: 2, Status: records.ClassCompleted, Date: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Capacity: 20, Enrolled: 20},
		{ID: 3, Status: records.ClassCancelled},
	}
	got := Classes(classes, now)
	assert.Equal(t, ClassStats{
		Total: 3, Scheduled: 1, Completed: 1, Cancelled: 1,
		ThisWeek: 1, Enrolled: 30, Capacity: 40, OccupancyPct: 75,
	}, got)

	assert.Equal(t, ClassStats{}, Classes(nil, now))
}

func TestGradesAverageCoversAllNumericScores(t *testing.T) {
	grades := []records.Grade{
		{ID: 1, Score: score(90)},
		{ID: 2, Score: score(50)},
		{ID: 3, Score: score(0)},
		{ID: 4},
	}
	got := Grades(grades)
	assert.Equal(t, 4, got.Total)
	assert.Equal(t, 1, got.Approved)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 2, got.Pending)
	assert.Equal(t, 46.7, got.Average)
	assert.Equal(t, 50, got.ApprovalPct)

	empty := Grades(nil)
	assert.Equal(t, 0.0, empty.Average)
	assert.Equal(t, 0, empty.ApprovalPct)
}

func TestActivitiesAndStudents(t *testing.T) {
	activities := []records.Activity{
		{Type: records.ActivityVisited, StudentsReached: 30},
		{Type: records.ActivityVisited, StudentsReached: 10},
		{Type: records.ActivityDigital, StudentsReached: 5},
	}
	assert.Equal(t, ActivityStats{Total: 3, Visited: 2, Digital: 1, StudentsReached: 45, AverageReach: 15}, Activities(activities))
	assert.Equal(t, ActivityStats{}, Activities(nil))

	students := []records.Student{{Accepted: true, SchoolID: 1}, {Accepted: false}, {Accepted: true}}
	assert.Equal(t, StudentStats{Total: 3, Accepted: 2, AcceptancePct: 67, WithSchool: 1}, Students(students))
	assert.Equal(t, StudentStats{}, Students(nil))
}

func TestAttendanceStats(t *testing.T) {
	items := []records.AttendanceRecord{
		{PresentStudentIDs: []int64{1, 2}, TotalStudents: 4},
		{PresentStudentIDs: []int64{3}, TotalStudents: 4},
	}
	assert.Equal(t, AttendanceStats{Records: 2, Present: 3, Roster: 8, AttendancePct: 38}, Attendance(items))
	assert.Equal(t, AttendanceStats{}, Attendance(nil))
}

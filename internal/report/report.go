// Package report builds the dashboard summary from one joint fetch of activities,
// grades, teachers and students.
package report

import (
	"context"
	"sort"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/resolve"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/stats"
)

// UntypedBucket collects activities that carry no type.
const UntypedBucket = "Untyped"

type Totals struct {
	Activities int `json:"activities"`
	Grades     int `json:"grades"`
	Teachers   int `json:"teachers"`
	Students   int `json:"students"`
}

type Effectiveness struct {
	Approved int `json:"approved"`
	Failed   int `json:"failed"`
	Pending  int `json:"pending"`
}

type TeacherActivity struct {
	Teacher    string `json:"teacher"`
	Activities int    `json:"activities"`
}

// Report is empty (zero value) whenever the joint fetch failed.
type Report struct {
	Totals          Totals            `json:"totals"`
	GradeAverage    float64           `json:"grade_average"`
	ActivityTypes   map[string]int    `json:"activity_types"`
	Effectiveness   Effectiveness     `json:"effectiveness"`
	ByTeacher       []TeacherActivity `json:"by_teacher"`
	StudentsReached int               `json:"students_reached"`
}

func empty() Report {
	return Report{ActivityTypes: map[string]int{}, ByTeacher: []TeacherActivity{}}
}

// Build fetches the four collections together. Nothing is derived unless every
// request succeeded; on failure the report is empty and err is the one failure.
func Build(ctx context.Context, fetcher clients.Fetcher) (Report, error) {
	snapshot, err := fetcher.FetchAll(ctx, clients.Activities, clients.Grades, clients.Teachers, clients.Students)
	if err != nil {
		return empty(), err
	}
	return Derive(
		records.DecodeActivities(snapshot[clients.Activities]),
		records.DecodeGrades(snapshot[clients.Grades]),
		records.DecodeTeachers(snapshot[clients.Teachers]),
		records.DecodeStudents(snapshot[clients.Students]),
	), nil
}

// Derive computes the report from already-fetched collections.
func Derive(activities []records.Activity, grades []records.Grade, teachers []records.Teacher, students []records.Student) Report {
	out := empty()
	out.Totals = Totals{
		Activities: len(activities),
		Grades:     len(grades),
		Teachers:   len(teachers),
		Students:   len(students),
	}
	out.ActivityTypes = TypeHistogram(activities)

	gradeStats := stats.Grades(grades)
	out.GradeAverage = gradeStats.Average
	out.Effectiveness = Effectiveness{
		Approved: gradeStats.Approved,
		Failed:   gradeStats.Failed,
		Pending:  gradeStats.Pending,
	}

	out.ByTeacher = byTeacher(activities, resolve.Teachers(teachers))
	out.StudentsReached = stats.Activities(activities).StudentsReached
	return out
}

// TypeHistogram counts activities per type. Only types that occur are present.
func TypeHistogram(activities []records.Activity) map[string]int {
	out := make(map[string]int)
	for _, a := range activities {
		key := string(a.Type)
		if key == "" {
			key = UntypedBucket
		}
		out[key]++
	}
	return out
}

func byTeacher(activities []records.Activity, teachers *resolve.Resolver) []TeacherActivity {
	counts := make(map[string]int)
	for _, a := range activities {
		counts[teachers.Label(a.TeacherID)]++
	}
	out := make([]TeacherActivity, 0, len(counts))
	for name, n := range counts {
		out = append(out, TeacherActivity{Teacher: name, Activities: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Activities != out[j].Activities {
			return out[i].Activities > out[j].Activities
		}
		return out[i].Teacher < out[j].Teacher
	})
	return out
}

package views

import (
	"time"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/filter"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/resolve"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/stats"
)

type GradeRow struct {
	ID      int64             `json:"id"`
	Class   string            `json:"class"`
	Student string            `json:"student"`
	Score   *float64          `json:"score"`
	Status  stats.GradeStatus `json:"status"`
	Date    time.Time         `json:"date"`
}

type GradesView struct {
	Status
	Criteria filter.Criteria  `json:"criteria"`
	Rows     []GradeRow       `json:"rows"`
	Stats    stats.GradeStats `json:"stats"`
}

type gradesData struct {
	grades []records.Grade
	rows   []GradeRow
}

// GradesPage: category matches the grade status, the field criterion the student.
type GradesPage struct {
	*controller[gradesData]
}

func NewGradesPage(fetcher clients.Fetcher) *GradesPage {
	return &GradesPage{
		controller: newController(fetcher, decodeGrades, clients.Grades, clients.Classes, clients.Students),
	}
}

func decodeGrades(snapshot clients.Snapshot) gradesData {
	classes := resolve.Classes(records.DecodeClasses(snapshot[clients.Classes]))
	students := resolve.Students(records.DecodeStudents(snapshot[clients.Students]))
	grades := records.DecodeGrades(snapshot[clients.Grades])
	rows := make([]GradeRow, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, GradeRow{
			ID:      g.ID,
			Class:   classes.Label(g.ClassID),
			Student: students.Label(g.StudentID),
			Score:   g.Score,
			Status:  stats.StatusOf(g.Score),
			Date:    g.Date,
		})
	}
	return gradesData{grades: grades, rows: rows}
}

var gradeAccessors = filter.Accessors[GradeRow]{
	Category: func(r GradeRow) string { return string(r.Status) },
	Date:     func(r GradeRow) time.Time { return r.Date },
	Field:    func(r GradeRow) string { return r.Student },
	Blob:     func(r GradeRow) []string { return []string{r.Class, r.Student} },
}

func (p *GradesPage) View() GradesView {
	data, criteria, status := p.state()
	return GradesView{
		Status:   status,
		Criteria: criteria,
		Rows:     filter.Apply(data.rows, criteria, gradeAccessors),
		Stats:    stats.Grades(data.grades),
	}
}

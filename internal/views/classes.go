package views

import (
	"time"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/filter"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/resolve"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/stats"
)

type ClassRow struct {
	ID        int64     `json:"id"`
	Subject   string    `json:"subject"`
	Date      time.Time `json:"date"`
	StartTime string    `json:"start_time,omitempty"`
	EndTime   string    `json:"end_time,omitempty"`
	Teacher   string    `json:"teacher"`
	Room      string    `json:"room,omitempty"`
	Status    string    `json:"status"`
	Capacity  int       `json:"capacity"`
	Enrolled  int       `json:"enrolled"`
}

type ClassesView struct {
	Status
	Criteria filter.Criteria  `json:"criteria"`
	Rows     []ClassRow       `json:"rows"`
	Stats    stats.ClassStats `json:"stats"`
}

type classesData struct {
	classes []records.ScheduledClass
	rows    []ClassRow
}

// ClassesPage lists induction classes. The category criterion matches the class status.
type ClassesPage struct {
	*controller[classesData]
	now func() time.Time
}

func NewClassesPage(fetcher clients.Fetcher) *ClassesPage {
	return &ClassesPage{
		controller: newController(fetcher, decodeClasses, clients.Classes, clients.Teachers),
		now:        time.Now,
	}
}

func decodeClasses(snapshot clients.Snapshot) classesData {
	teachers := resolve.RawTeachers(snapshot[clients.Teachers])
	classes := records.DecodeClasses(snapshot[clients.Classes])
	rows := make([]ClassRow, 0, len(classes))
	for _, c := range classes {
		rows = append(rows, ClassRow{
			ID:        c.ID,
			Subject:   c.Subject,
			Date:      c.Date,
			StartTime: c.StartTime,
			EndTime:   c.EndTime,
			Teacher:   teachers.Label(c.TeacherID),
			Room:      c.Room,
			Status:    string(c.Status),
			Capacity:  c.Capacity,
			Enrolled:  c.Enrolled,
		})
	}
	return classesData{classes: classes, rows: rows}
}

var classAccessors = filter.Accessors[ClassRow]{
	Category: func(r ClassRow) string { return r.Status },
	Date:     func(r ClassRow) time.Time { return r.Date },
	Field:    func(r ClassRow) string { return r.Teacher },
	Blob:     func(r ClassRow) []string { return []string{r.Subject, r.Teacher, r.Room} },
}

func (p *ClassesPage) View() ClassesView {
	data, criteria, status := p.state()
	return ClassesView{
		Status:   status,
		Criteria: criteria,
		Rows:     filter.Apply(data.rows, criteria, classAccessors),
		Stats:    stats.Classes(data.classes, p.now()),
	}
}

package views

import (
	"time"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/filter"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/resolve"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/stats"
)

type AttendanceRow struct {
	ID      int64     `json:"id"`
	Class   string    `json:"class"`
	Teacher string    `json:"teacher"`
	Date    time.Time `json:"date"`
	Present int       `json:"present"`
	Total   int       `json:"total"`
}

type AttendanceHistoryView struct {
	Status
	Criteria filter.Criteria       `json:"criteria"`
	Rows     []AttendanceRow       `json:"rows"`
	Stats    stats.AttendanceStats `json:"stats"`
}

type attendanceData struct {
	history []records.AttendanceRecord
	rows    []AttendanceRow
}

type AttendanceHistoryPage struct {
	*controller[attendanceData]
}

func NewAttendanceHistoryPage(fetcher clients.Fetcher) *AttendanceHistoryPage {
	return &AttendanceHistoryPage{
		controller: newController(fetcher, decodeAttendance, clients.Attendance, clients.Classes, clients.Teachers),
	}
}

func decodeAttendance(snapshot clients.Snapshot) attendanceData {
	classes := resolve.Classes(records.DecodeClasses(snapshot[clients.Classes]))
	teachers := resolve.RawTeachers(snapshot[clients.Teachers])
	history := records.DecodeAttendance(snapshot[clients.Attendance])
	rows := make([]AttendanceRow, 0, len(history))
	for _, r := range history {
		rows = append(rows, AttendanceRow{
			ID:      r.ID,
			Class:   classes.Label(r.ClassID),
			Teacher: teachers.Label(r.TeacherID),
			Date:    r.Date,
			Present: len(r.PresentStudentIDs),
			Total:   r.TotalStudents,
		})
	}
	return attendanceData{history: history, rows: rows}
}

var attendanceAccessors = filter.Accessors[AttendanceRow]{
	Date:  func(r AttendanceRow) time.Time { return r.Date },
	Field: func(r AttendanceRow) string { return r.Teacher },
	Blob:  func(r AttendanceRow) []string { return []string{r.Class, r.Teacher} },
}

func (p *AttendanceHistoryPage) View() AttendanceHistoryView {
	data, criteria, status := p.state()
	return AttendanceHistoryView{
		Status:   status,
		Criteria: criteria,
		Rows:     filter.Apply(data.rows, criteria, attendanceAccessors),
		Stats:    stats.Attendance(data.history),
	}
}

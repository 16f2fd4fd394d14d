package views

import (
	"strings"
	"time"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/evidence"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/filter"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/resolve"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/stats"
)

type ActivityRow struct {
	ID              int64               `json:"id"`
	Type            string              `json:"type"`
	Date            time.Time           `json:"date"`
	Teacher         string              `json:"teacher"`
	School          string              `json:"school"`
	StudentsReached int                 `json:"students_reached"`
	Programs        []string            `json:"programs"`
	Notes           string              `json:"notes,omitempty"`
	Evidence        []evidence.Evidence `json:"evidence"`
}

type ActivitiesView struct {
	Status
	Criteria filter.Criteria     `json:"criteria"`
	Rows     []ActivityRow       `json:"rows"`
	Stats    stats.ActivityStats `json:"stats"`
}

type activitiesData struct {
	activities []records.Activity
	rows       []ActivityRow
}

// ActivitiesPage lists promotion activities with teacher and school names resolved.
type ActivitiesPage struct {
	*controller[activitiesData]
}

func NewActivitiesPage(fetcher clients.Fetcher) *ActivitiesPage {
	return &ActivitiesPage{
		controller: newController(fetcher, decodeActivities, clients.Teachers, clients.Schools, clients.Activities),
	}
}

func decodeActivities(snapshot clients.Snapshot) activitiesData {
	teachers := resolve.RawTeachers(snapshot[clients.Teachers])
	schools := resolve.Schools(records.DecodeSchools(snapshot[clients.Schools]))
	activities := records.DecodeActivities(snapshot[clients.Activities])

	rows := make([]ActivityRow, 0, len(activities))
	for _, a := range activities {
		programs := a.Programs
		if programs == nil {
			programs = []string{}
		}
		rows = append(rows, ActivityRow{
			ID:              a.ID,
			Type:            string(a.Type),
			Date:            a.Date,
			Teacher:         teachers.Label(a.TeacherID),
			School:          schools.LabelOptional(a.SchoolID),
			StudentsReached: a.StudentsReached,
			Programs:        programs,
			Notes:           a.Notes,
			Evidence:        evidence.Extract(a),
		})
	}
	return activitiesData{activities: activities, rows: rows}
}

var activityAccessors = filter.Accessors[ActivityRow]{
	Category: func(r ActivityRow) string { return r.Type },
	Date:     func(r ActivityRow) time.Time { return r.Date },
	Field:    func(r ActivityRow) string { return r.Teacher },
	Blob: func(r ActivityRow) []string {
		return []string{r.Teacher, r.School, r.Type, r.Notes, strings.Join(r.Programs, " ")}
	},
}

// View applies the current criteria to the last snapshot. Stats cover the whole
// snapshot, not just the filtered rows.
func (p *ActivitiesPage) View() ActivitiesView {
	data, criteria, status := p.state()
	return ActivitiesView{
		Status:   status,
		Criteria: criteria,
		Rows:     filter.Apply(data.rows, criteria, activityAccessors),
		Stats:    stats.Activities(data.activities),
	}
}

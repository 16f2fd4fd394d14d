package views

import (
	"encoding/json"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/filter"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/resolve"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/stats"
)

type ModalKind string

const (
	ModalNone       ModalKind = "none"
	ModalRegister   ModalKind = "register"
	ModalEdit       ModalKind = "edit"
	ModalBulkUpload ModalKind = "bulk_upload"
)

// Modal is the students page's open form. Only ModalEdit carries a target, and
// at most one modal is open at a time.
type Modal struct {
	kind   ModalKind
	target *records.Student
}

func NoModal() Modal         { return Modal{kind: ModalNone} }
func RegisterModal() Modal   { return Modal{kind: ModalRegister} }
func BulkUploadModal() Modal { return Modal{kind: ModalBulkUpload} }

func EditModal(student records.Student) Modal {
	return Modal{kind: ModalEdit, target: &student}
}

func (m Modal) Kind() ModalKind {
	if m.kind == "" {
		return ModalNone
	}
	return m.kind
}

// Target is the student being edited. ok is false for every other kind.
func (m Modal) Target() (records.Student, bool) {
	if m.kind != ModalEdit || m.target == nil {
		return records.Student{}, false
	}
	return *m.target, true
}

func (m Modal) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind    ModalKind        `json:"kind"`
		Student *records.Student `json:"student,omitempty"`
	}{Kind: m.Kind()}
	if student, ok := m.Target(); ok {
		out.Student = &student
	}
	return json.Marshal(out)
}

type StudentRow struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	EnrollmentCode string `json:"enrollment_code,omitempty"`
	School         string `json:"school"`
	Program        string `json:"program,omitempty"`
	Accepted       bool   `json:"accepted"`
}

type StudentsView struct {
	Status
	Criteria filter.Criteria    `json:"criteria"`
	Rows     []StudentRow       `json:"rows"`
	Stats    stats.StudentStats `json:"stats"`
	Modal    Modal              `json:"modal"`
}

type studentsData struct {
	students []records.Student
	rows     []StudentRow
}

// StudentsPage lists prospective students. Category matches the program of
// interest, the field criterion the school.
type StudentsPage struct {
	*controller[studentsData]
	modal Modal
}

func NewStudentsPage(fetcher clients.Fetcher) *StudentsPage {
	return &StudentsPage{
		controller: newController(fetcher, decodeStudents, clients.Students, clients.Schools),
		modal:      NoModal(),
	}
}

func decodeStudents(snapshot clients.Snapshot) studentsData {
	schools := resolve.Schools(records.DecodeSchools(snapshot[clients.Schools]))
	students := records.DecodeStudents(snapshot[clients.Students])
	rows := make([]StudentRow, 0, len(students))
	for _, s := range students {
		rows = append(rows, StudentRow{
			ID:             s.ID,
			Name:           resolve.StudentLabel(s),
			EnrollmentCode: s.EnrollmentCode,
			School:         schools.LabelOptional(s.SchoolID),
			Program:        s.Program,
			Accepted:       s.Accepted,
		})
	}
	return studentsData{students: students, rows: rows}
}

var studentAccessors = filter.Accessors[StudentRow]{
	Category: func(r StudentRow) string { return r.Program },
	Field:    func(r StudentRow) string { return r.School },
	Blob:     func(r StudentRow) []string { return []string{r.Name, r.EnrollmentCode, r.School, r.Program} },
}

// Open replaces whatever modal was open.
func (p *StudentsPage) Open(m Modal) {
	p.mu.Lock()
	p.modal = m
	p.mu.Unlock()
}

func (p *StudentsPage) Close() {
	p.Open(NoModal())
}

// OpenEdit opens the edit form for a student of the current snapshot.
func (p *StudentsPage) OpenEdit(studentID int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.data.students {
		if s.ID == studentID {
			p.modal = EditModal(s)
			return nil
		}
	}
	return failure.Precondition("unknown_student", "the student is not in the current list")
}

func (p *StudentsPage) View() StudentsView {
	data, criteria, status := p.state()
	p.mu.Lock()
	modal := p.modal
	p.mu.Unlock()
	return StudentsView{
		Status:   status,
		Criteria: criteria,
		Rows:     filter.Apply(data.rows, criteria, studentAccessors),
		Stats:    stats.Students(data.students),
		Modal:    modal,
	}
}

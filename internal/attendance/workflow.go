// Package attendance implements attendance capture as a two-phase workflow: pick a
// scheduled class, then mark which of its students are present and submit.
package attendance

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/metrics"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

type Phase string

const (
	PhaseSelectClass    Phase = "select_class"
	PhaseMarkAttendance Phase = "mark_attendance"
	PhaseDone           Phase = "done"
)

// ErrRosterUnavailable is returned when the selected class has no retrievable roster.
var ErrRosterUnavailable = errors.New("attendance cannot be recorded: roster unavailable")

var validate = validator.New()

// Backend is the part of the backend client the workflow talks to.
type Backend interface {
	ScheduledClasses(ctx context.Context) ([]records.ScheduledClass, error)
	Roster(ctx context.Context, classID int64) ([]records.Student, error)
	Create(ctx context.Context, resource clients.Resource, payload interface{}) error
}

// Mark is one roster line.
type Mark struct {
	Student records.Student `json:"student"`
	Present bool            `json:"present"`
}

// Payload is the body posted to the backend on submission. Absent students are
// left out rather than sent as false.
type Payload struct {
	ClassID           int64   `json:"class_id" validate:"gt=0"`
	Date              string  `json:"date" validate:"required,datetime=2006-01-02"`
	TeacherID         int64   `json:"teacher_id"`
	PresentStudentIDs []int64 `json:"present_students" validate:"min=1"`
}

type selectClassState struct {
	classes []records.ScheduledClass
}

type markAttendanceState struct {
	class  records.ScheduledClass
	roster []Mark
}

// Workflow holds one operator's attendance capture. The class list is kept across
// phases; the roster only exists while marking.
type Workflow struct {
	phase     Phase
	selecting selectClassState
	marking   *markAttendanceState
}

// Start loads the classes that can take attendance (status Scheduled).
func Start(ctx context.Context, backend Backend) (*Workflow, error) {
	classes, err := backend.ScheduledClasses(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "load classes")
	}
	open := make([]records.ScheduledClass, 0, len(classes))
	for _, c := range classes {
		if c.Status == records.ClassScheduled && c.ID != 0 {
			open = append(open, c)
		}
	}
	return &Workflow{phase: PhaseSelectClass, selecting: selectClassState{classes: open}}, nil
}

func (w *Workflow) Phase() Phase {
	return w.phase
}

func (w *Workflow) Classes() []records.ScheduledClass {
	return append([]records.ScheduledClass(nil), w.selecting.classes...)
}

func wrongPhase(want Phase) error {
	switch want {
	case PhaseSelectClass:
		return failure.Precondition("wrong_step", "go back to class selection first")
	default:
		return failure.Precondition("wrong_step", "select a class first")
	}
}

func (w *Workflow) checkPhase(want Phase) error {
	if w.phase == PhaseDone {
		return failure.Precondition("workflow_finished", "attendance was already submitted")
	}
	if w.phase != want {
		return wrongPhase(want)
	}
	return nil
}

// Select picks a class and fetches its roster. The workflow only moves to marking
// once the roster is in hand; on any failure it stays on class selection.
func (w *Workflow) Select(ctx context.Context, backend Backend, classID int64) error {
	if err := w.checkPhase(PhaseSelectClass); err != nil {
		return err
	}
	if classID == 0 {
		return failure.Precondition("no_class_selected", "select a class before continuing")
	}
	var class *records.ScheduledClass
	for i := range w.selecting.classes {
		if w.selecting.classes[i].ID == classID {
			class = &w.selecting.classes[i]
			break
		}
	}
	if class == nil {
		return failure.Precondition("class_not_available", "the selected class is not open for attendance")
	}

	roster, err := backend.Roster(ctx, classID)
	if err != nil {
		if clients.IsNotFound(err) {
			return ErrRosterUnavailable
		}
		return errors.Wrap(err, "load roster")
	}
	marks := rosterMarks(roster)
	if len(marks) == 0 {
		return ErrRosterUnavailable
	}
	w.marking = &markAttendanceState{class: *class, roster: marks}
	w.phase = PhaseMarkAttendance
	return nil
}

// rosterMarks starts every student present. Entries without an id cannot be toggled
// or submitted and are dropped, and a repeated id keeps its first entry.
func rosterMarks(roster []records.Student) []Mark {
	marks := make([]Mark, 0, len(roster))
	seen := make(map[int64]struct{}, len(roster))
	for _, student := range roster {
		if student.ID == 0 {
			continue
		}
		if _, dup := seen[student.ID]; dup {
			continue
		}
		seen[student.ID] = struct{}{}
		marks = append(marks, Mark{Student: student, Present: true})
	}
	return marks
}

// Toggle flips one student's presence. It has no effect outside the workflow.
func (w *Workflow) Toggle(studentID int64) error {
	if err := w.checkPhase(PhaseMarkAttendance); err != nil {
		return err
	}
	for i := range w.marking.roster {
		if w.marking.roster[i].Student.ID == studentID {
			w.marking.roster[i].Present = !w.marking.roster[i].Present
			return nil
		}
	}
	return failure.Precondition("unknown_student", "the student is not on this class roster")
}

// Back returns to class selection and drops the roster marks.
func (w *Workflow) Back() error {
	if err := w.checkPhase(PhaseMarkAttendance); err != nil {
		return err
	}
	w.marking = nil
	w.phase = PhaseSelectClass
	return nil
}

// Present lists the ids currently marked present, in roster order.
func (w *Workflow) Present() []int64 {
	if w.marking == nil {
		return nil
	}
	ids := make([]int64, 0, len(w.marking.roster))
	for _, m := range w.marking.roster {
		if m.Present {
			ids = append(ids, m.Student.ID)
		}
	}
	return ids
}

// Submit posts the attendance taken on now's date. With nobody present it is
// rejected locally and nothing is sent. After a successful post the workflow is done.
func (w *Workflow) Submit(ctx context.Context, backend Backend, now time.Time) (Payload, error) {
	if err := w.checkPhase(PhaseMarkAttendance); err != nil {
		return Payload{}, err
	}
	present := w.Present()
	if len(present) == 0 {
		metrics.CountSubmission(metrics.OutcomeRejected)
		return Payload{}, failure.Precondition("no_students_present", "mark at least one student as present")
	}
	payload := Payload{
		ClassID:           w.marking.class.ID,
		Date:              now.Format("2006-01-02"),
		TeacherID:         w.marking.class.TeacherID,
		PresentStudentIDs: present,
	}
	if err := validate.Struct(payload); err != nil {
		metrics.CountSubmission(metrics.OutcomeRejected)
		return Payload{}, errors.Wrap(err, "attendance payload")
	}

	if err := backend.Create(ctx, clients.Attendance, payload); err != nil {
		outcome := metrics.OutcomeStatus
		if clients.IsTransport(err) {
			outcome = metrics.OutcomeTransport
		}
		metrics.CountSubmission(outcome)
		return Payload{}, errors.Wrap(err, "submit attendance")
	}
	metrics.CountSubmission(metrics.OutcomeOK)
	w.phase = PhaseDone
	w.marking = nil
	return payload, nil
}

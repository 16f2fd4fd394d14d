package attendance

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

type fakeBackend struct {
	classes    []records.ScheduledClass
	rosters    map[int64][]records.Student
	rosterErr  error
	createErr  error
	posted     []interface{}
	rosterHits int
}

func (f *fakeBackend) ScheduledClasses(context.Context) ([]records.ScheduledClass, error) {
	return f.classes, nil
}

func (f *fakeBackend) Roster(_ context.Context, classID int64) ([]records.Student, error) {
	f.rosterHits++
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	roster, ok := f.rosters[classID]
	if !ok {
		return nil, &clients.StatusError{Resource: "roster", Status: http.StatusNotFound, Message: "not found"}
	}
	return roster, nil
}

func (f *fakeBackend) Create(_ context.Context, resource clients.Resource, payload interface{}) error {
	if resource != clients.Attendance {
		return errors.New("unexpected resource")
	}
	if f.createErr != nil {
		return f.createErr
	}
	f.posted = append(f.posted, payload)
	return nil
}

func newFake() *fakeBackend {
	return &fakeBackend{
		classes: []records.ScheduledClass{
			{ID: 1, Subject: "Algebra", TeacherID: 3, Status: records.ClassScheduled},
			{ID: 2, Subject: "History", TeacherID: 4, Status: records.ClassCompleted},
			{ID: 5, Subject: "Physics", TeacherID: 3, Status: records.ClassScheduled},
		},
		rosters: map[int64][]records.Student{
			1: {{ID: 10, Name: "Ana"}, {ID: 11, Name: "Luis"}},
		},
	}
}

func isPrecondition(t *testing.T, err error, code string) {
	t.Helper()
	pre, ok := failure.AsPrecondition(err)
	require.True(t, ok, "expected precondition error, got %v", err)
	assert.Equal(t, code, pre.Code)
}

func TestStartKeepsOnlyScheduledClasses(t *testing.T) {
	w, err := Start(context.Background(), newFake())
	require.NoError(t, err)
	assert.Equal(t, PhaseSelectClass, w.Phase())

	ids := []int64{}
	for _, c := range w.Classes() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int64{1, 5}, ids)
}

func TestToggleAndSubmitSendsPresentStudents(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, err := Start(ctx, backend)
	require.NoError(t, err)

	require.NoError(t, w.Select(ctx, backend, 1))
	assert.Equal(t, PhaseMarkAttendance, w.Phase())
	assert.Equal(t, []int64{10, 11}, w.Present())

	require.NoError(t, w.Toggle(11))
	payload, err := w.Submit(ctx, backend, time.Date(2024, 5, 8, 15, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, payload.PresentStudentIDs)
	assert.Equal(t, int64(1), payload.ClassID)
	assert.Equal(t, int64(3), payload.TeacherID)
	assert.Equal(t, "2024-05-08", payload.Date)
	require.Len(t, backend.posted, 1)
	assert.Equal(t, payload, backend.posted[0])
	assert.Equal(t, PhaseDone, w.Phase())
}

func TestToggleTwiceRestoresPresence(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, _ := Start(ctx, backend)
	require.NoError(t, w.Select(ctx, backend, 1))

	require.NoError(t, w.Toggle(10))
	require.NoError(t, w.Toggle(10))
	assert.Equal(t, []int64{10, 11}, w.Present())

	isPrecondition(t, w.Toggle(99), "unknown_student")
}

func TestSubmitWithNobodyPresentSendsNothing(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, _ := Start(ctx, backend)
	require.NoError(t, w.Select(ctx, backend, 1))
	require.NoError(t, w.Toggle(10))
	require.NoError(t, w.Toggle(11))

	_, err := w.Submit(ctx, backend, time.Now())
	isPrecondition(t, err, "no_students_present")
	assert.Empty(t, backend.posted)
	assert.Equal(t, PhaseMarkAttendance, w.Phase())
}

func TestSelectGuards(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, _ := Start(ctx, backend)

	isPrecondition(t, w.Select(ctx, backend, 0), "no_class_selected")
	isPrecondition(t, w.Select(ctx, backend, 2), "class_not_available")
	assert.Zero(t, backend.rosterHits)
	assert.Equal(t, PhaseSelectClass, w.Phase())
}

func TestSelectWithoutRosterStaysOnClassSelection(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, _ := Start(ctx, backend)

	err := w.Select(ctx, backend, 5)
	assert.ErrorIs(t, err, ErrRosterUnavailable)
	assert.Equal(t, PhaseSelectClass, w.Phase())
	assert.Nil(t, w.Present())

	backend.rosters[5] = []records.Student{}
	assert.ErrorIs(t, w.Select(ctx, backend, 5), ErrRosterUnavailable)
}

func TestSelectDropsRosterEntriesWithoutUsableIDs(t *testing.T) {
	backend := newFake()
	backend.rosters[1] = []records.Student{
		{Name: "No id"},
		{ID: 10, Name: "Ana"},
		{ID: 10, Name: "Ana again"},
		{ID: 11, Name: "Luis"},
	}
	ctx := context.Background()
	w, _ := Start(ctx, backend)

	require.NoError(t, w.Select(ctx, backend, 1))
	assert.Equal(t, []int64{10, 11}, w.Present())

	require.NoError(t, w.Toggle(10))
	assert.Equal(t, []int64{11}, w.Present())
	isPrecondition(t, w.Toggle(0), "unknown_student")

	payload, err := w.Submit(ctx, backend, time.Date(2024, 5, 8, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, []int64{11}, payload.PresentStudentIDs)
}

func TestSelectRosterWithoutIDsIsUnavailable(t *testing.T) {
	backend := newFake()
	backend.rosters[5] = []records.Student{{Name: "No id"}, {Name: "Also no id"}}
	ctx := context.Background()
	w, _ := Start(ctx, backend)

	assert.ErrorIs(t, w.Select(ctx, backend, 5), ErrRosterUnavailable)
	assert.Equal(t, PhaseSelectClass, w.Phase())
}

func TestSelectTransportFailureIsNotRosterUnavailable(t *testing.T) {
	backend := newFake()
	backend.rosterErr = &clients.TransportError{Resource: "roster", Err: errors.New("dial tcp: refused")}
	ctx := context.Background()
	w, _ := Start(ctx, backend)

	err := w.Select(ctx, backend, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRosterUnavailable)
	assert.True(t, clients.IsTransport(err))
	assert.Equal(t, PhaseSelectClass, w.Phase())
}

func TestSubmitFailureKeepsMarks(t *testing.T) {
	backend := newFake()
	backend.createErr = &clients.StatusError{Resource: "attendance", Status: http.StatusBadRequest, Message: "class closed"}
	ctx := context.Background()
	w, _ := Start(ctx, backend)
	require.NoError(t, w.Select(ctx, backend, 1))
	require.NoError(t, w.Toggle(11))

	_, err := w.Submit(ctx, backend, time.Now())
	require.Error(t, err)
	assert.Equal(t, "class closed", clients.UserMessage(err))
	assert.Equal(t, PhaseMarkAttendance, w.Phase())
	assert.Equal(t, []int64{10}, w.Present())
}

func TestBackDropsRoster(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, _ := Start(ctx, backend)
	require.NoError(t, w.Select(ctx, backend, 1))
	require.NoError(t, w.Toggle(11))

	require.NoError(t, w.Back())
	assert.Equal(t, PhaseSelectClass, w.Phase())
	assert.Len(t, w.Classes(), 2)

	isPrecondition(t, w.Toggle(10), "wrong_step")
	isPrecondition(t, w.Back(), "wrong_step")

	require.NoError(t, w.Select(ctx, backend, 1))
	assert.Equal(t, []int64{10, 11}, w.Present())
}

func TestFinishedWorkflowRejectsEverything(t *testing.T) {
	backend := newFake()
	ctx := context.Background()
	w, _ := Start(ctx, backend)
	require.NoError(t, w.Select(ctx, backend, 1))
	_, err := w.Submit(ctx, backend, time.Now())
	require.NoError(t, err)

	isPrecondition(t, w.Toggle(10), "workflow_finished")
	isPrecondition(t, w.Select(ctx, backend, 1), "workflow_finished")
	_, err = w.Submit(ctx, backend, time.Now())
	isPrecondition(t, err, "workflow_finished")
	assert.Len(t, backend.posted, 1)
}

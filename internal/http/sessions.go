package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/attendance"
)

type sessionResponse struct {
	ID      string              `json:"id"`
	State   attendance.Snapshot `json:"state"`
	Payload *attendance.Payload `json:"payload,omitempty"`
}

type selectClassRequest struct {
	ClassID int64 `json:"class_id" validate:"gte=0"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "sessions_unavailable", "attendance sessions are not available")
		return
	}
	workflow, err := attendance.Start(r.Context(), s.backend)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	session := attendance.NewSession(operatorID(r.Context()), workflow, s.now())
	if err := s.sessions.Save(r.Context(), session); err != nil {
		s.writeFailure(w, r, errors.Wrap(err, "save session"))
		return
	}
	writeJSON(w, http.StatusCreated, sessionResponse{ID: session.ID, State: session.State})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: session.ID, State: session.State})
}

func (s *Server) handleSelectClass(w http.ResponseWriter, r *http.Request) {
	var req selectClassRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "the request body is not valid JSON")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "class_id must be a positive id")
		return
	}
	s.updateSession(w, r, func(ctx context.Context, wf *attendance.Workflow) (*attendance.Payload, error) {
		return nil, wf.Select(ctx, s.backend, req.ClassID)
	})
}

func (s *Server) handleToggleStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := strconv.ParseInt(chi.URLParam(r, "studentId"), 10, 64)
	if err != nil || studentID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_student_id", "student must be a positive id")
		return
	}
	s.updateSession(w, r, func(_ context.Context, wf *attendance.Workflow) (*attendance.Payload, error) {
		return nil, wf.Toggle(studentID)
	})
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(_ context.Context, wf *attendance.Workflow) (*attendance.Payload, error) {
		return nil, wf.Back()
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	s.updateSession(w, r, func(ctx context.Context, wf *attendance.Workflow) (*attendance.Payload, error) {
		payload, err := wf.Submit(ctx, s.backend, s.now())
		if err != nil {
			return nil, err
		}
		s.log.Info().Int64("class_id", payload.ClassID).Int("present", len(payload.PresentStudentIDs)).Msg("attendance submitted")
		return &payload, nil
	})
}

// loadSession resolves {sessionId} to a session owned by the caller. Sessions of
// other operators are reported as missing.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (attendance.Session, bool) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, "sessions_unavailable", "attendance sessions are not available")
		return attendance.Session{}, false
	}
	id := chi.URLParam(r, "sessionId")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "session_not_found", "the attendance session has expired")
		return attendance.Session{}, false
	}
	session, ok, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		s.writeFailure(w, r, errors.Wrap(err, "load session"))
		return attendance.Session{}, false
	}
	if !ok || session.Owner != operatorID(r.Context()) {
		writeError(w, http.StatusNotFound, "session_not_found", "the attendance session has expired")
		return attendance.Session{}, false
	}
	return session, true
}

// updateSession runs one workflow step. The session is saved only when the step
// succeeds, so a failed step leaves the stored state untouched. A step that returns a
// payload has already posted to the backend: if the finished state cannot be saved
// the session is dropped instead, and the caller still gets the payload.
func (s *Server) updateSession(w http.ResponseWriter, r *http.Request, step func(context.Context, *attendance.Workflow) (*attendance.Payload, error)) {
	session, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	workflow, err := attendance.Restore(session.State)
	if err != nil {
		s.writeFailure(w, r, errors.Wrap(err, "restore session"))
		return
	}
	payload, err := step(r.Context(), workflow)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	session.State = workflow.Snapshot()
	session.UpdatedAt = s.now().UTC()
	if err := s.sessions.Save(r.Context(), session); err != nil {
		if payload == nil {
			s.writeFailure(w, r, errors.Wrap(err, "save session"))
			return
		}
		s.discardSubmitted(r.Context(), session.ID, err)
	}
	writeJSON(w, http.StatusOK, sessionResponse{ID: session.ID, State: session.State, Payload: payload})
}

func (s *Server) discardSubmitted(ctx context.Context, id string, saveErr error) {
	s.log.Warn().Err(saveErr).Str("session_id", id).Msg("submitted session not saved, dropping it")
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.log.Error().Err(err).Str("session_id", id).Msg("submitted session could not be dropped")
	}
}

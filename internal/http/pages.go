package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/evidence"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/filter"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/report"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/views"
)

type page[V any] interface {
	SetCriteria(filter.Criteria)
	Refresh(ctx context.Context) error
	View() V
}

// servePage refreshes p with the request's filter criteria and writes its view.
func servePage[V any](s *Server, w http.ResponseWriter, r *http.Request, p page[V]) {
	criteria, err := filter.Parse(r.URL.Query())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	p.SetCriteria(criteria)
	if err := p.Refresh(r.Context()); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.View())
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	servePage[views.ActivitiesView](s, w, r, views.NewActivitiesPage(s.backend))
}

func (s *Server) handleClasses(w http.ResponseWriter, r *http.Request) {
	servePage[views.ClassesView](s, w, r, views.NewClassesPage(s.backend))
}

func (s *Server) handleGrades(w http.ResponseWriter, r *http.Request) {
	servePage[views.GradesView](s, w, r, views.NewGradesPage(s.backend))
}

func (s *Server) handleAttendanceHistory(w http.ResponseWriter, r *http.Request) {
	servePage[views.AttendanceHistoryView](s, w, r, views.NewAttendanceHistoryPage(s.backend))
}

// handleStudents also reports the open form: ?modal=register|bulk_upload|edit, with
// &student={id} for edit.
func (s *Server) handleStudents(w http.ResponseWriter, r *http.Request) {
	criteria, err := filter.Parse(r.URL.Query())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	p := views.NewStudentsPage(s.backend)
	p.SetCriteria(criteria)
	if err := p.Refresh(r.Context()); err != nil {
		s.writeFailure(w, r, err)
		return
	}

	switch views.ModalKind(strings.TrimSpace(r.URL.Query().Get("modal"))) {
	case "", views.ModalNone:
	case views.ModalRegister:
		p.Open(views.RegisterModal())
	case views.ModalBulkUpload:
		p.Open(views.BulkUploadModal())
	case views.ModalEdit:
		id, err := strconv.ParseInt(r.URL.Query().Get("student"), 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_student_id", "student must be a positive id")
			return
		}
		if err := p.OpenEdit(id); err != nil {
			s.writeFailure(w, r, err)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, "invalid_modal", "unknown modal")
		return
	}
	writeJSON(w, http.StatusOK, p.View())
}

func (s *Server) handleEvidence(w http.ResponseWriter, r *http.Request) {
	p := views.NewEvidencePage(s.backend)
	p.SetKind(r.URL.Query().Get("kind"))
	if err := p.Refresh(r.Context()); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p.View())
}

type checkEvidenceRequest struct {
	URLs []string `json:"urls" validate:"required,min=1,dive,required"`
}

// handleCheckEvidence classifies a batch of evidence URLs before it is attached to an
// activity, rejecting batches over the per-activity cap.
func (s *Server) handleCheckEvidence(w http.ResponseWriter, r *http.Request) {
	var req checkEvidenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "the request body is not valid JSON")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "urls must list at least one evidence link")
		return
	}
	if strings.Contains(strings.Join(req.URLs, ""), ",") {
		s.writeFailure(w, r, failure.Precondition("invalid_url", "evidence links cannot contain commas"))
		return
	}
	if err := evidence.CheckUploads(len(req.URLs)); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	items := evidence.Extract(records.Activity{EvidenceURLs: strings.Join(req.URLs, ",")})
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	out, err := report.Build(r.Context(), s.backend)
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/attendance"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/auth"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/clients"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/config"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
)

// Backend is everything the console reads from and posts to the REST backend.
type Backend interface {
	clients.Fetcher
	attendance.Backend
}

type Server struct {
	cfg      config.Config
	backend  Backend
	sessions attendance.Store
	verifier *auth.Verifier
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

func NewServer(cfg config.Config, backend Backend, sessions attendance.Store, logger zerolog.Logger) (*Server, error) {
	verifier, err := auth.NewVerifier(cfg.JWTPublicKey, cfg.JWTIssuer)
	if err != nil {
		return nil, errors.Wrap(err, "jwt public key")
	}
	return &Server{
		cfg:      cfg,
		backend:  backend,
		sessions: sessions,
		verifier: verifier,
		validate: validator.New(),
		log:      logger.With().Str("component", "http").Logger(),
		now:      time.Now,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.authMiddleware)

		r.Get("/activities", s.handleActivities)
		r.Get("/evidence", s.handleEvidence)
		r.Post("/evidence/check", s.handleCheckEvidence)
		r.Get("/classes", s.handleClasses)
		r.Get("/grades", s.handleGrades)
		r.Get("/students", s.handleStudents)
		r.Get("/attendance/records", s.handleAttendanceHistory)
		r.Get("/report", s.handleReport)

		r.Post("/attendance/sessions", s.handleStartSession)
		r.Get("/attendance/sessions/{sessionId}", s.handleGetSession)
		r.Post("/attendance/sessions/{sessionId}/class", s.handleSelectClass)
		r.Post("/attendance/sessions/{sessionId}/students/{studentId}/toggle", s.handleToggleStudent)
		r.Post("/attendance/sessions/{sessionId}/back", s.handleBack)
		r.Post("/attendance/sessions/{sessionId}/submit", s.handleSubmit)
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}

// Auth

type claimsKey struct{}

// authMiddleware forwards the operator's Authorization header to the backend. When a
// public key is configured the token must also verify locally.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		ctx := clients.WithAuthorization(r.Context(), header)
		if s.verifier != nil {
			if _, ok := auth.BearerToken(header); !ok {
				writeError(w, http.StatusUnauthorized, "missing_token", "sign in to continue")
				return
			}
			claims, err := s.verifier.Verify(header)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid_token", "your session is no longer valid")
				return
			}
			ctx = context.WithValue(ctx, claimsKey{}, claims)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func claimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey{}).(*auth.Claims)
	return claims
}

// operatorID owns attendance sessions. Without authentication every session belongs
// to the anonymous operator "".
func operatorID(ctx context.Context) string {
	if claims := claimsFromContext(ctx); claims != nil {
		return claims.OperatorID()
	}
	return ""
}

// writeFailure maps an error onto the console's error responses.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	if pre, ok := failure.AsPrecondition(err); ok {
		writeError(w, http.StatusUnprocessableEntity, pre.Code, pre.Message)
		return
	}
	if errors.Is(err, attendance.ErrRosterUnavailable) {
		writeError(w, http.StatusUnprocessableEntity, "roster_unavailable", attendance.ErrRosterUnavailable.Error())
		return
	}
	var statusErr *clients.StatusError
	switch {
	case clients.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", clients.UserMessage(err))
	case errors.As(err, &statusErr):
		writeError(w, http.StatusBadGateway, "backend_error", clients.UserMessage(err))
	case clients.IsTransport(err):
		writeError(w, http.StatusServiceUnavailable, "backend_unavailable", clients.UserMessage(err))
	default:
		s.log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", clients.FallbackMessage)
	}
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"error": code, "message": message})
}

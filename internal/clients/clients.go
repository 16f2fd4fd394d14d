package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/metrics"
	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

// Resource is a backend collection endpoint relative to the base URL.
type Resource string

const (
	Teachers   Resource = "teachers"
	Schools    Resource = "schools"
	Classes    Resource = "classes"
	Students   Resource = "students"
	Activities Resource = "activities"
	Grades     Resource = "grades"
	Attendance Resource = "attendance"
)

// Backend reads collections from the REST backend and posts attendance.
type Backend struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func New(baseURL string, timeout time.Duration, logger zerolog.Logger) *Backend {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Backend{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With().Str("component", "backend").Logger(),
	}
}

type authorizationKey struct{}

// WithAuthorization attaches the operator's Authorization header so it is forwarded
// on every backend call made with ctx.
func WithAuthorization(ctx context.Context, header string) context.Context {
	if header == "" {
		return ctx
	}
	return context.WithValue(ctx, authorizationKey{}, header)
}

func authorizationFrom(ctx context.Context) string {
	header, _ := ctx.Value(authorizationKey{}).(string)
	return header
}

// List fetches every record of resource.
func (b *Backend) List(ctx context.Context, resource Resource) ([]records.Raw, error) {
	return b.getList(ctx, string(resource), "/"+string(resource))
}

// Roster fetches the students enrolled in a class.
func (b *Backend) Roster(ctx context.Context, classID int64) ([]records.Student, error) {
	raws, err := b.getList(ctx, "roster", "/classes/"+strconv.FormatInt(classID, 10)+"/students")
	if err != nil {
		return nil, err
	}
	return records.DecodeStudents(raws), nil
}

// ScheduledClasses fetches the class list typed.
func (b *Backend) ScheduledClasses(ctx context.Context) ([]records.ScheduledClass, error) {
	raws, err := b.List(ctx, Classes)
	if err != nil {
		return nil, err
	}
	return records.DecodeClasses(raws), nil
}

// Create posts payload as JSON to resource. Any 2xx status is success.
func (b *Backend) Create(ctx context.Context, resource Resource, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encode payload")
	}
	resp, err := b.do(ctx, string(resource), http.MethodPost, "/"+string(resource), bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return nil
}

func (b *Backend) getList(ctx context.Context, label, path string) ([]records.Raw, error) {
	resp, err := b.do(ctx, label, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	list, err := records.DecodeList(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", label)
	}
	return list, nil
}

func (b *Backend) do(ctx context.Context, label, method, path string, body *bytes.Reader) (*http.Response, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, b.baseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, b.baseURL+path, nil)
	}
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if header := authorizationFrom(ctx); header != "" {
		req.Header.Set("Authorization", header)
	}

	started := time.Now()
	resp, err := b.httpClient.Do(req)
	elapsed := time.Since(started)
	if err != nil {
		metrics.ObserveBackend(label, metrics.OutcomeTransport, elapsed)
		b.log.Warn().Err(err).Str("resource", label).Str("method", method).Msg("backend unreachable")
		return nil, &TransportError{Resource: label, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		metrics.ObserveBackend(label, metrics.OutcomeStatus, elapsed)
		statusErr := statusErrorFromResponse(label, resp)
		b.log.Warn().Int("status", resp.StatusCode).Str("resource", label).Str("method", method).Msg(statusErr.Message)
		return nil, statusErr
	}
	metrics.ObserveBackend(label, metrics.OutcomeOK, elapsed)
	b.log.Debug().Str("resource", label).Str("method", method).Dur("elapsed", elapsed).Msg("backend request")
	return resp, nil
}

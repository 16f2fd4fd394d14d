package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/failure"
)

func newTestBackend(t *testing.T, handler http.HandlerFunc) *Backend {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api/", 2*time.Second, zerolog.Nop())
}

func TestListForwardsAuthorization(t *testing.T) {
	var gotAuth, gotPath string
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`[{"id": 1, "name": "Ana"}]`))
	})

	ctx := WithAuthorization(context.Background(), "Bearer abc")
	list, err := backend.List(ctx, Teachers)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 record, got %d", len(list))
	}
	if gotAuth != "Bearer abc" {
		t.Fatalf("expected forwarded authorization, got %q", gotAuth)
	}
	if gotPath != "/api/teachers" {
		t.Fatalf("unexpected path %s", gotPath)
	}
}

func TestStatusErrorPrefersBackendMessage(t *testing.T) {
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/classes/7/students" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "class has no roster"})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := backend.Roster(context.Background(), 7)
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	if got := UserMessage(err); got != "class has no roster" {
		t.Fatalf("expected backend message, got %q", got)
	}

	_, err = backend.List(context.Background(), Grades)
	if IsNotFound(err) {
		t.Fatalf("500 must not read as not found")
	}
	if got := UserMessage(err); got != FallbackMessage {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	backend := New(url, time.Second, zerolog.Nop())
	_, err := backend.List(context.Background(), Schools)
	if !IsTransport(err) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if UserMessage(err) != TransportMessage {
		t.Fatalf("unexpected message %q", UserMessage(err))
	}
}

func TestCreatePostsJSON(t *testing.T) {
	var got map[string]interface{}
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/attendance" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("Content-Type") != "application/json" {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	})

	if err := backend.Create(context.Background(), Attendance, map[string]int{"class_id": 3}); err != nil {
		t.Fatalf("create error: %v", err)
	}
	if got["class_id"] != float64(3) {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestFetchAllFailsAsAWhole(t *testing.T) {
	var calls int32
	backend := newTestBackend(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path == "/api/students" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[{"id": 1}]`))
	})

	snapshot, err := backend.FetchAll(context.Background(), Activities, Grades, Teachers, Students)
	if err == nil {
		t.Fatalf("expected error")
	}
	if snapshot != nil {
		t.Fatalf("expected no partial snapshot, got %v", snapshot)
	}
	if atomic.LoadInt32(&calls) != 4 {
		t.Fatalf("expected every request to be issued, got %d", calls)
	}

	snapshot, err = backend.FetchAll(context.Background(), Activities, Grades)
	if err != nil {
		t.Fatalf("fetch error: %v", err)
	}
	if len(snapshot[Activities]) != 1 || len(snapshot[Grades]) != 1 {
		t.Fatalf("unexpected snapshot %v", snapshot)
	}
}

func TestUserMessageForPrecondition(t *testing.T) {
	err := failure.Precondition("no_class_selected", "select a class first")
	if UserMessage(err) != "select a class first" {
		t.Fatalf("unexpected message %q", UserMessage(err))
	}
}

package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/OldROOx/CACEI-ADMISION-sub000/internal/records"
)

// Snapshot is the serialisable form of a Workflow. It is also what the HTTP layer
// renders for a session.
type Snapshot struct {
	Phase   Phase                    `json:"phase"`
	Classes []records.ScheduledClass `json:"classes"`
	Class   *records.ScheduledClass  `json:"class,omitempty"`
	Roster  []Mark                   `json:"roster,omitempty"`
	Present int                      `json:"present"`
}

func (w *Workflow) Snapshot() Snapshot {
	snap := Snapshot{
		Phase:   w.phase,
		Classes: w.Classes(),
	}
	if w.marking != nil {
		class := w.marking.class
		snap.Class = &class
		snap.Roster = append([]Mark(nil), w.marking.roster...)
		snap.Present = len(w.Present())
	}
	return snap
}

// Restore rebuilds a Workflow, refusing snapshots that mix phases.
func Restore(snap Snapshot) (*Workflow, error) {
	w := &Workflow{phase: snap.Phase, selecting: selectClassState{classes: snap.Classes}}
	switch snap.Phase {
	case PhaseSelectClass, PhaseDone:
		if snap.Class != nil || len(snap.Roster) > 0 {
			return nil, fmt.Errorf("snapshot in phase %s carries a roster", snap.Phase)
		}
	case PhaseMarkAttendance:
		if snap.Class == nil {
			return nil, errors.New("snapshot in phase mark_attendance has no class")
		}
		w.marking = &markAttendanceState{
			class:  *snap.Class,
			roster: append([]Mark(nil), snap.Roster...),
		}
	default:
		return nil, fmt.Errorf("unknown phase %q", snap.Phase)
	}
	return w, nil
}

// Session is a workflow owned by one operator.
type Session struct {
	ID        string    `json:"id"`
	Owner     string    `json:"owner"`
	State     Snapshot  `json:"state"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewSession(owner string, w *Workflow, now time.Time) Session {
	return Session{
		ID:        uuid.NewString(),
		Owner:     owner,
		State:     w.Snapshot(),
		UpdatedAt: now.UTC(),
	}
}

// Store keeps sessions between requests.
type Store interface {
	Save(ctx context.Context, session Session) error
	Load(ctx context.Context, id string) (Session, bool, error)
	Delete(ctx context.Context, id string) error
}

var ErrStoreUnavailable = errors.New("session_store_unavailable")

// RedisStore keeps each session as one JSON value expiring after ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("attendance_session:%s", id)
}

func (s *RedisStore) Save(ctx context.Context, session Session) error {
	if s.client == nil {
		return ErrStoreUnavailable
	}
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionKey(session.ID), data, s.ttl).Err()
}

func (s *RedisStore) Load(ctx context.Context, id string) (Session, bool, error) {
	if s.client == nil {
		return Session{}, false, ErrStoreUnavailable
	}
	value, err := s.client.Get(ctx, sessionKey(id)).Result()
	if err == redis.Nil {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, err
	}
	var session Session
	if err := json.Unmarshal([]byte(value), &session); err != nil {
		return Session{}, false, err
	}
	return session, true, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if s.client == nil {
		return ErrStoreUnavailable
	}
	return s.client.Del(ctx, sessionKey(id)).Err()
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemoryStore is the in-process store used when no Redis address is configured.
// Expired entries are invisible to Load and removed by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, entries: map[string]memoryEntry{}}
}

func (s *MemoryStore) Save(_ context.Context, session Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[session.ID] = memoryEntry{session: session, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok || !s.now().Before(entry.expiresAt) {
		return Session{}, false, nil
	}
	return entry.session, true, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// Sweep drops entries expired at now and returns how many were removed.
func (s *MemoryStore) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

package compare

import (
	"errors"
	"real-estate-investor/internal/models"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("compare session not found")

type session struct {
	set      *Set
	lastSeen time.Time
}

// Store owns one comparison Set per browsing session. Sessions live in
// memory only and are dropped by Sweep once idle for longer than ttl.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore creates an empty session store. A non-positive ttl disables expiry.
func NewStore(ttl time.Duration, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string]*session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// Create starts a new session with an empty set and returns its id.
func (st *Store) Create() string {
	id := uuid.NewString()

	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[id] = &session{set: NewSet(), lastSeen: st.now()}
	st.logger.Debug("compare session created", zap.String("session", id))
	return id
}

// Result is the membership of a session after an operation.
type Result struct {
	SessionID string            `json:"session_id"`
	Changed   bool              `json:"changed"`
	Items     []models.Property `json:"items"`
	Count     int               `json:"count"`
	Capacity  int               `json:"capacity"`
	Full      bool              `json:"full"`
}

func (st *Store) with(sessionID string, fn func(s *Set) bool) (*Result, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	sess, ok := st.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.lastSeen = st.now()

	changed := fn(sess.set)
	return &Result{
		SessionID: sessionID,
		Changed:   changed,
		Items:     sess.set.Snapshot(),
		Count:     sess.set.Len(),
		Capacity:  MaxItems,
		Full:      sess.set.Full(),
	}, nil
}

func (st *Store) Add(sessionID string, p models.Property) (*Result, error) {
	return st.with(sessionID, func(s *Set) bool { return s.Add(p) })
}

func (st *Store) Remove(sessionID, propertyID string) (*Result, error) {
	return st.with(sessionID, func(s *Set) bool { return s.Remove(propertyID) })
}

func (st *Store) Clear(sessionID string) (*Result, error) {
	return st.with(sessionID, func(s *Set) bool {
		changed := s.Len() > 0
		s.Clear()
		return changed
	})
}

func (st *Store) Snapshot(sessionID string) (*Result, error) {
	return st.with(sessionID, func(*Set) bool { return false })
}

func (st *Store) Contains(sessionID, propertyID string) (bool, error) {
	var found bool
	_, err := st.with(sessionID, func(s *Set) bool {
		found = s.Contains(propertyID)
		return false
	})
	return found, err
}

// IDs returns the property ids of a session in insertion order.
func (st *Store) IDs(sessionID string) ([]string, error) {
	var ids []string
	_, err := st.with(sessionID, func(s *Set) bool {
		ids = s.IDs()
		return false
	})
	return ids, err
}

// Discard ends a session.
func (st *Store) Discard(sessionID string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, sessionID)
	return nil
}

// Sweep drops sessions idle since before now-ttl and returns how many were removed.
func (st *Store) Sweep(now time.Time) int {
	if st.ttl <= 0 {
		return 0
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := now.Add(-st.ttl)
	removed := 0
	for id, sess := range st.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		st.logger.Info("compare sessions expired", zap.Int("removed", removed), zap.Int("remaining", len(st.sessions)))
	}
	return removed
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

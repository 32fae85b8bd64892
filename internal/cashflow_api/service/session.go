package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/smecash/cashflow-ledger/internal/domain/cashflow"
	"github.com/smecash/cashflow-ledger/internal/domain/profile"
)

// Session holds one user's in-memory view of their cashflow records between
// operations. It is created lazily on first use and torn down at logout;
// nothing here is process-global state.
type Session struct {
	mu       sync.RWMutex
	records  []cashflow.Record
	role     profile.Role
	lastErr  string
	hydrated bool
}

// Snapshot returns a copy of the session's records and role
func (s *Session) Snapshot() ([]cashflow.Record, profile.Role) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]cashflow.Record, len(s.records))
	copy(out, s.records)
	return out, s.role
}

// LastError returns the last observed primary-store error, empty when the
// most recent operation succeeded.
func (s *Session) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// SetRecords replaces the session state after a successful fetch
func (s *Session) SetRecords(records []cashflow.Record, role profile.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = records
	s.role = role
	s.lastErr = ""
	s.hydrated = true
}

// Reset empties the record list and retains the error message; used when a
// fetch fails so no partial results survive.
func (s *Session) Reset(errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.lastErr = errMsg
	s.hydrated = false
}

// Prepend inserts a freshly created record at the head of the list
func (s *Session) Prepend(rec cashflow.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append([]cashflow.Record{rec}, s.records...)
	s.lastErr = ""
}

// Find looks up a record by unified id
func (s *Session) Find(id string) (cashflow.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return cashflow.Record{}, false
}

// Replace swaps the record with the same unified id
func (s *Session) Replace(rec cashflow.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			break
		}
	}
	s.lastErr = ""
}

// Remove drops the record with the given unified id
func (s *Session) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			break
		}
	}
	s.lastErr = ""
}

// SetError records a primary-store failure for passive UI reads
func (s *Session) SetError(errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = errMsg
}

// SessionRegistry tracks one Session per user
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewSessionRegistry creates an empty session registry
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Get returns the user's session, creating it on first use
func (r *SessionRegistry) Get(userID uuid.UUID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[userID]
	if !ok {
		sess = &Session{}
		r.sessions[userID] = sess
	}
	return sess
}

// Peek returns the user's session without creating one
func (r *SessionRegistry) Peek(userID uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sess, ok := r.sessions[userID]
	return sess, ok
}

// End tears down the user's session
func (r *SessionRegistry) End(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, userID)
}

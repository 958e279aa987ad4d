package auth

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"sync"
	"time"

	"github.com/Oudwins/devtaskflow/internals/timeouts"
)

var now = time.Now

type StateStatus string

const (
	StatusPending  StateStatus = "pending"
	StatusComplete StateStatus = "complete"
	StatusFailed   StateStatus = "failed"
)

var (
	ErrUnknownState = errors.New("unknown oauth state")
	ErrStateExpired = errors.New("oauth state expired")
	ErrStateUsed    = errors.New("oauth state already used")
)

type loginState struct {
	status    StateStatus
	err       string
	claimed   bool
	createdAt time.Time
}

// StateStore tracks in-flight logins by their OAuth state parameter. Each
// state can be claimed once, within the TTL.
type StateStore struct {
	mu     sync.RWMutex
	ttl    time.Duration
	states map[string]*loginState
}

func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = timeouts.OAuthState
	}
	return &StateStore{ttl: ttl, states: make(map[string]*loginState)}
}

func (s *StateStore) Create() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked()

	for range 5 {
		state, err := randomString(16)
		if err != nil {
			return "", err
		}
		if _, exists := s.states[state]; exists {
			continue
		}
		s.states[state] = &loginState{status: StatusPending, createdAt: now()}
		return state, nil
	}
	return "", errors.New("failed to allocate oauth state")
}

// Claim reserves a pending state for a callback. A second claim of the same
// state fails even if the first has not finished.
func (s *StateStore) Claim(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.states[state]
	if !exists {
		return ErrUnknownState
	}
	if now().Sub(record.createdAt) > s.ttl {
		record.status = StatusFailed
		record.err = "expired"
		return ErrStateExpired
	}
	if record.claimed || record.status != StatusPending {
		return ErrStateUsed
	}
	record.claimed = true
	return nil
}

func (s *StateStore) Mark(state string, status StateStatus, errMsg string) {
	s.mu.Lock()
	if record, exists := s.states[state]; exists {
		record.status = status
		record.err = errMsg
	}
	s.mu.Unlock()
}

func (s *StateStore) Status(state string) (StateStatus, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.states[state]
	if !exists {
		return StatusFailed, "unknown_state", false
	}
	if record.status == StatusPending && now().Sub(record.createdAt) > s.ttl {
		record.status = StatusFailed
		record.err = "expired"
	}
	return record.status, record.err, true
}

func (s *StateStore) pruneLocked() {
	cutoff := now().Add(-2 * s.ttl)
	for key, record := range s.states {
		if record.createdAt.Before(cutoff) {
			delete(s.states, key)
		}
	}
}

func randomString(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

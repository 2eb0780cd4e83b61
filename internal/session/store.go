package session

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/hoangtv/cinebook-flow/internal/model"
)

// Store holds every live reservation session, keyed by an opaque random
// identifier handed to the client when the session is created.  Sessions
// are removed on successful handoff to submission and on expiry
// acknowledgement, so the map only ever holds in-progress flows.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// newSessionID generates a random hexadecimal token used to address the
// session from the client.
func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create opens a new browsing session for a user, movie and cinema.
func (st *Store) Create(userID, movieID string, cinema model.Cinema) (*Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:        id,
		userID:    userID,
		movieID:   movieID,
		cinema:    cinema,
		state:     StateBrowsing,
		selected:  make(map[string]model.Seat),
		food:      make(map[string]model.SelectedFoodItem),
		createdAt: time.Now(),
	}
	st.mu.Lock()
	st.sessions[id] = s
	st.mu.Unlock()
	return s, nil
}

// Get looks up a live session by id.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Remove tears a session down, stopping any live countdown so the timer
// goroutine cannot outlive the entry.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if ok {
		s.mu.Lock()
		s.stopCountdownLocked()
		s.mu.Unlock()
	}
}

// Len reports the number of live sessions, used by the health endpoint.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

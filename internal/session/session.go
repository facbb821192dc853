// Package session keeps per-conversation state for the assistant in memory.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/angeloszaimis/health-assistant/internal/knowledgebase"
)

// Session tracks where a user is inside an intent's steps. Callers must hold
// the session lock (Lock/Unlock) while reading or changing its fields.
type Session struct {
	mutex sync.Mutex

	ID               string
	Intent           string
	Steps            []string
	CurrentStep      int
	AwaitingFollowup bool
	Followup         *knowledgebase.Followup
	Lang             string
}

func (s *Session) Lock()   { s.mutex.Lock() }
func (s *Session) Unlock() { s.mutex.Unlock() }

// HasNext reports whether a step follows the current one.
func (s *Session) HasNext() bool {
	return s.CurrentStep+1 < len(s.Steps)
}

// ClearFollowup stops waiting for a yes/no answer.
func (s *Session) ClearFollowup() {
	s.AwaitingFollowup = false
	s.Followup = nil
}

type Store struct {
	mutex    sync.RWMutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create starts a fresh session with a random id.
func (st *Store) Create() *Session {
	s := &Session{
		ID:          uuid.NewString(),
		CurrentStep: -1,
		Lang:        knowledgebase.DefaultLang,
	}

	st.mutex.Lock()
	st.sessions[s.ID] = s
	st.mutex.Unlock()

	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mutex.RLock()
	defer st.mutex.RUnlock()

	s, ok := st.sessions[id]
	return s, ok
}

// GetOrCreate returns the session for id, or a new one if id is empty or
// unknown. The new session gets its own id, not the one asked for.
func (st *Store) GetOrCreate(id string) *Session {
	if id != "" {
		if s, ok := st.Get(id); ok {
			return s
		}
	}
	return st.Create()
}

func (st *Store) Delete(id string) {
	st.mutex.Lock()
	defer st.mutex.Unlock()
	delete(st.sessions, id)
}

func (st *Store) Len() int {
	st.mutex.RLock()
	defer st.mutex.RUnlock()
	return len(st.sessions)
}

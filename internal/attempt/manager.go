package attempt

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cscore-lms/backend/internal/model"
)

// Manager owns the live attempt sessions, keyed per student and assignment.
// The submission workflow registers the auto-submit hook the countdowns fire.
type Manager struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	autoSubmit func(*Session)
	interval   time.Duration
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		interval: time.Second,
	}
}

func sessionKey(studentID, assignmentID uint) string {
	return fmt.Sprintf("%d:%d", studentID, assignmentID)
}

// SetAutoSubmit installs the callback invoked when an attempt's countdown
// expires. Auto-submit skips the confirmation step but runs the identical
// submit logic.
func (m *Manager) SetAutoSubmit(fn func(*Session)) {
	m.mu.Lock()
	m.autoSubmit = fn
	m.mu.Unlock()
}

// Start returns the student's live session for the assignment, creating one
// when none exists. A fresh session is seeded with previously saved answers
// and, when the assignment has a time limit, a countdown of timeLimit*60
// seconds. Re-entering an existing attempt does not reset its clock.
func (m *Manager) Start(studentID uint, assignment *model.Assignment, saved map[uint]Answer) *Session {
	key := sessionKey(studentID, assignment.ID)

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return s
	}
	s := newSession(studentID, assignment.ID, assignment.Questions)
	m.sessions[key] = s
	onExpire := m.expireFunc(s)
	interval := m.interval
	m.mu.Unlock()

	s.seed(saved)
	if assignment.TimeLimit > 0 {
		cd := newCountdown(assignment.TimeLimit*60, interval, onExpire)
		s.setCountdown(cd)
		cd.Start()
		log.Info().
			Uint("studentID", studentID).
			Uint("assignmentID", assignment.ID).
			Int("seconds", assignment.TimeLimit*60).
			Msg("Attempt started with countdown")
	}
	return s
}

// Resume returns the live session, or rebuilds one from saved answers
// without arming a countdown. The submit path uses this when a submit
// arrives for an attempt whose session did not survive a restart: the
// rebuilt session only has to carry the answers through grading.
func (m *Manager) Resume(studentID uint, assignment *model.Assignment, saved map[uint]Answer) *Session {
	key := sessionKey(studentID, assignment.ID)

	m.mu.Lock()
	if s, ok := m.sessions[key]; ok {
		m.mu.Unlock()
		return s
	}
	s := newSession(studentID, assignment.ID, assignment.Questions)
	m.sessions[key] = s
	m.mu.Unlock()

	s.seed(saved)
	return s
}

func (m *Manager) expireFunc(s *Session) func() {
	return func() {
		m.mu.Lock()
		fn := m.autoSubmit
		m.mu.Unlock()
		if fn == nil {
			log.Warn().
				Uint("studentID", s.StudentID).
				Uint("assignmentID", s.AssignmentID).
				Msg("Countdown expired but no auto-submit hook is registered")
			return
		}
		log.Info().
			Uint("studentID", s.StudentID).
			Uint("assignmentID", s.AssignmentID).
			Msg("Time limit reached, auto-submitting attempt")
		fn(s)
	}
}

// Get returns the live session, if any.
func (m *Manager) Get(studentID, assignmentID uint) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionKey(studentID, assignmentID)]
	return s, ok
}

// Remove tears the session down, stopping its countdown.
func (m *Manager) Remove(studentID, assignmentID uint) {
	key := sessionKey(studentID, assignmentID)
	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// SetTickInterval shortens the countdown tick for tests.
func (m *Manager) SetTickInterval(d time.Duration) {
	m.mu.Lock()
	m.interval = d
	m.mu.Unlock()
}

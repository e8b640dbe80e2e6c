package attempt

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cscore-lms/backend/internal/executor"
	"github.com/cscore-lms/backend/internal/model"
)

var (
	ErrUnknownQuestion = errors.New("question does not belong to this attempt")
	ErrChoiceQuestion  = errors.New("free-text answers do not apply to choice questions")
	ErrNotChoice       = errors.New("option selection only applies to choice questions")
)

// Answer is the per-question state a session owns for the duration of one
// attempt: free text and/or selected option ids.
type Answer struct {
	Text            string
	SelectedOptions []uint
}

// Empty reports whether the answer carries neither text nor a selection.
func (a Answer) Empty() bool {
	return strings.TrimSpace(a.Text) == "" && len(a.SelectedOptions) == 0
}

// Session holds one student's in-flight attempt at an assignment: the answer
// store, cached check results, the question cursor and the countdown. Only
// the attempt workflow mutates it; everything else reads.
type Session struct {
	StudentID    uint
	AssignmentID uint
	StartedAt    time.Time

	mu           sync.Mutex
	questions    []model.Question
	byID         map[uint]model.Question
	index        int
	answers      map[uint]Answer
	checkResults map[uint]*executor.Result
	countdown    *Countdown
	submitting   bool
	submitted    bool
}

func newSession(studentID, assignmentID uint, questions []model.Question) *Session {
	ordered := make([]model.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].OrderIndex < ordered[j].OrderIndex
	})
	byID := make(map[uint]model.Question, len(ordered))
	for _, q := range ordered {
		byID[q.ID] = q
	}
	return &Session{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		StartedAt:    time.Now(),
		questions:    ordered,
		byID:         byID,
		answers:      make(map[uint]Answer),
		checkResults: make(map[uint]*executor.Result),
	}
}

// Questions returns the attempt's questions in presentation order.
func (s *Session) Questions() []model.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Question, len(s.questions))
	copy(out, s.questions)
	return out
}

// SetFreeText replaces the text answer for a question. Any cached check
// result for that question is invalidated: a stale pass/fail next to edited
// code is a correctness bug, not cosmetics.
func (s *Session) SetFreeText(questionID uint, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.byID[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	if q.Type.IsChoice() {
		return ErrChoiceQuestion
	}
	a := s.answers[questionID]
	a.Text = text
	s.answers[questionID] = a
	delete(s.checkResults, questionID)
	return nil
}

// SetSelectedOptions records an option pick. With multiple=false the
// selection is replaced (radio semantics); with multiple=true optionID is
// toggled in place (checkbox semantics).
func (s *Session) SetSelectedOptions(questionID, optionID uint, multiple bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.byID[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	if !q.Type.IsChoice() {
		return ErrNotChoice
	}
	a := s.answers[questionID]
	if !multiple {
		a.SelectedOptions = []uint{optionID}
	} else {
		toggled := make([]uint, 0, len(a.SelectedOptions)+1)
		removed := false
		for _, id := range a.SelectedOptions {
			if id == optionID {
				removed = true
				continue
			}
			toggled = append(toggled, id)
		}
		if !removed {
			toggled = append(toggled, optionID)
		}
		a.SelectedOptions = toggled
	}
	s.answers[questionID] = a
	return nil
}

// seed loads previously saved answers without invalidating anything.
func (s *Session) seed(saved map[uint]Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for qid, a := range saved {
		if _, ok := s.byID[qid]; !ok {
			continue
		}
		s.answers[qid] = a
	}
}

// IsAnswered reports whether the question carries non-empty text or a
// non-empty selection.
func (s *Session) IsAnswered(questionID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.answers[questionID].Empty()
}

// HasAnyAnswer reports whether at least one question is answered. A submit
// is only accepted when this holds.
func (s *Session) HasAnyAnswer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if !a.Empty() {
			return true
		}
	}
	return false
}

// Answer returns the stored answer for a question.
func (s *Session) Answer(questionID uint) Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answers[questionID]
}

// AnswersSnapshot copies the answer store, e.g. for grading after submit.
func (s *Session) AnswersSnapshot() map[uint]Answer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[uint]Answer, len(s.answers))
	for qid, a := range s.answers {
		opts := make([]uint, len(a.SelectedOptions))
		copy(opts, a.SelectedOptions)
		out[qid] = Answer{Text: a.Text, SelectedOptions: opts}
	}
	return out
}

// SetCheckResult caches the latest check/run outcome for a question.
func (s *Session) SetCheckResult(questionID uint, res *executor.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[questionID]; !ok {
		return ErrUnknownQuestion
	}
	s.checkResults[questionID] = res
	return nil
}

// CheckResult returns the cached check outcome, if still valid.
func (s *Session) CheckResult(questionID uint) (*executor.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.checkResults[questionID]
	return res, ok
}

// GoTo moves the question cursor, clamped to [0, len-1], and returns the
// index actually landed on.
func (s *Session) GoTo(index int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if max := len(s.questions) - 1; index > max {
		index = max
	}
	if index < 0 {
		index = 0
	}
	s.index = index
	return s.index
}

// Index returns the current question cursor.
func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// RemainingSeconds returns the countdown value, or nil when the attempt has
// no time limit.
func (s *Session) RemainingSeconds() *int {
	s.mu.Lock()
	cd := s.countdown
	s.mu.Unlock()
	if cd == nil {
		return nil
	}
	r := cd.Remaining()
	return &r
}

func (s *Session) setCountdown(cd *Countdown) {
	s.mu.Lock()
	s.countdown = cd
	s.mu.Unlock()
}

// TryBeginSubmit claims the single submit slot. Auto-submit on expiry and a
// manual submit can fire in the same instant; exactly one caller wins.
func (s *Session) TryBeginSubmit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.submitting || s.submitted {
		return false
	}
	s.submitting = true
	return true
}

// EndSubmit releases the slot. A failed submit keeps the session usable so
// the student can retry with their answers intact.
func (s *Session) EndSubmit(success bool) {
	s.mu.Lock()
	s.submitting = false
	s.submitted = success
	cd := s.countdown
	s.mu.Unlock()
	if success && cd != nil {
		cd.Stop()
	}
}

// Close stops the countdown on session teardown.
func (s *Session) Close() {
	s.mu.Lock()
	cd := s.countdown
	s.mu.Unlock()
	if cd != nil {
		cd.Stop()
	}
}

package attempt

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscore-lms/backend/internal/model"
)

func timedAssignment(id uint, minutes int) *model.Assignment {
	return &model.Assignment{
		ID:        id,
		TimeLimit: minutes,
		Questions: []model.Question{
			{ID: 1, Type: model.QuestionEssay, OrderIndex: 1},
		},
	}
}

func TestManagerStartIsIdempotentPerAttempt(t *testing.T) {
	m := NewManager()
	a := timedAssignment(42, 0)

	s1 := m.Start(7, a, nil)
	s2 := m.Start(7, a, nil)
	assert.Same(t, s1, s2)

	s3 := m.Start(8, a, nil)
	assert.NotSame(t, s1, s3, "sessions are per student")
}

func TestManagerSeedsSavedAnswers(t *testing.T) {
	m := NewManager()
	s := m.Start(7, timedAssignment(42, 0), map[uint]Answer{1: {Text: "draft"}})
	assert.Equal(t, "draft", s.Answer(1).Text)
}

func TestManagerNoCountdownWithoutTimeLimit(t *testing.T) {
	m := NewManager()
	s := m.Start(7, timedAssignment(42, 0), nil)
	assert.Nil(t, s.RemainingSeconds())
}

func TestManagerResumeArmsNoCountdown(t *testing.T) {
	m := NewManager()
	s := m.Resume(7, timedAssignment(42, 1), map[uint]Answer{1: {Text: "draft"}})

	assert.Nil(t, s.RemainingSeconds(), "a resumed session never starts a clock")
	assert.Equal(t, "draft", s.Answer(1).Text)

	got, ok := m.Get(7, 42)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestManagerResumeReturnsLiveSession(t *testing.T) {
	m := NewManager()
	a := timedAssignment(42, 1)

	live := m.Start(7, a, nil)
	resumed := m.Resume(7, a, nil)
	assert.Same(t, live, resumed)
	assert.NotNil(t, resumed.RemainingSeconds(), "the original countdown keeps running")
}

func TestManagerCountdownAutoSubmits(t *testing.T) {
	m := NewManager()
	m.SetTickInterval(time.Millisecond)

	var submitted atomic.Pointer[Session]
	m.SetAutoSubmit(func(s *Session) {
		submitted.Store(s)
	})

	// One minute becomes 60 ticks at the test interval.
	s := m.Start(7, timedAssignment(42, 1), nil)
	r := s.RemainingSeconds()
	require.NotNil(t, r)
	assert.LessOrEqual(t, *r, 60)

	require.Eventually(t, func() bool {
		return submitted.Load() == s
	}, 2*time.Second, time.Millisecond)

	r = s.RemainingSeconds()
	require.NotNil(t, r)
	assert.Equal(t, 0, *r)
}

func TestManagerRemoveStopsSession(t *testing.T) {
	m := NewManager()
	m.SetTickInterval(time.Millisecond)
	m.Start(7, timedAssignment(42, 1), nil)

	_, ok := m.Get(7, 42)
	require.True(t, ok)

	m.Remove(7, 42)
	_, ok = m.Get(7, 42)
	assert.False(t, ok)
}

func TestManagerAutoAndManualSubmitAreExclusive(t *testing.T) {
	m := NewManager()
	m.SetTickInterval(time.Millisecond)

	var wins int32
	m.SetAutoSubmit(func(s *Session) {
		if s.TryBeginSubmit() {
			atomic.AddInt32(&wins, 1)
			s.EndSubmit(true)
		}
	})

	s := m.Start(7, timedAssignment(42, 1), nil)

	// Manual submit races the expiring countdown.
	go func() {
		if s.TryBeginSubmit() {
			atomic.AddInt32(&wins, 1)
			s.EndSubmit(true)
		}
	}()

	require.Eventually(t, func() bool {
		return s.RemainingSeconds() != nil && *s.RemainingSeconds() == 0
	}, 2*time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, int32(1), atomic.LoadInt32(&wins))
}

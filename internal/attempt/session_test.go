package attempt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscore-lms/backend/internal/executor"
	"github.com/cscore-lms/backend/internal/model"
)

func testQuestions() []model.Question {
	return []model.Question{
		{ID: 3, Type: model.QuestionProgramming, OrderIndex: 3},
		{ID: 1, Type: model.QuestionMultipleChoice, OrderIndex: 1},
		{ID: 2, Type: model.QuestionEssay, OrderIndex: 2},
	}
}

func TestSessionOrdersQuestionsByOrderIndex(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	qs := s.Questions()
	require.Len(t, qs, 3)
	assert.Equal(t, uint(1), qs[0].ID)
	assert.Equal(t, uint(2), qs[1].ID)
	assert.Equal(t, uint(3), qs[2].ID)
}

func TestSessionFreeTextRejectsChoiceQuestions(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	assert.ErrorIs(t, s.SetFreeText(1, "text"), ErrChoiceQuestion)
	assert.ErrorIs(t, s.SetFreeText(99, "text"), ErrUnknownQuestion)
	assert.NoError(t, s.SetFreeText(2, "my essay"))
	assert.Equal(t, "my essay", s.Answer(2).Text)
}

func TestSessionSelectionRadioReplaces(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	require.NoError(t, s.SetSelectedOptions(1, 10, false))
	require.NoError(t, s.SetSelectedOptions(1, 11, false))
	assert.Equal(t, []uint{11}, s.Answer(1).SelectedOptions)
}

func TestSessionSelectionCheckboxToggles(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	require.NoError(t, s.SetSelectedOptions(1, 10, true))
	require.NoError(t, s.SetSelectedOptions(1, 11, true))
	assert.ElementsMatch(t, []uint{10, 11}, s.Answer(1).SelectedOptions)

	// Picking an already selected option deselects it.
	require.NoError(t, s.SetSelectedOptions(1, 10, true))
	assert.Equal(t, []uint{11}, s.Answer(1).SelectedOptions)
}

func TestSessionSelectionRejectsNonChoice(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	assert.ErrorIs(t, s.SetSelectedOptions(3, 10, false), ErrNotChoice)
}

func TestSessionEditInvalidatesCheckResult(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	require.NoError(t, s.SetCheckResult(3, &executor.Result{Success: true}))
	_, ok := s.CheckResult(3)
	require.True(t, ok)

	require.NoError(t, s.SetFreeText(3, "edited code"))
	_, ok = s.CheckResult(3)
	assert.False(t, ok, "cached verdict must not survive a code edit")
}

func TestSessionAnsweredTracking(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	assert.False(t, s.HasAnyAnswer())
	assert.False(t, s.IsAnswered(2))

	require.NoError(t, s.SetFreeText(2, "   "))
	assert.False(t, s.IsAnswered(2), "whitespace does not count as answered")

	require.NoError(t, s.SetSelectedOptions(1, 10, false))
	assert.True(t, s.IsAnswered(1))
	assert.True(t, s.HasAnyAnswer())
}

func TestSessionGoToClamps(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	assert.Equal(t, 0, s.GoTo(-5))
	assert.Equal(t, 2, s.GoTo(99))
	assert.Equal(t, 1, s.GoTo(1))
	assert.Equal(t, 1, s.Index())
}

func TestSessionSubmitSlotIsExclusive(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	require.True(t, s.TryBeginSubmit())
	assert.False(t, s.TryBeginSubmit(), "second submit while one is in flight")

	s.EndSubmit(false)
	assert.True(t, s.TryBeginSubmit(), "failed submit frees the slot")

	s.EndSubmit(true)
	assert.False(t, s.TryBeginSubmit(), "no resubmit after success")
}

func TestSessionSnapshotIsDeepCopy(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	require.NoError(t, s.SetSelectedOptions(1, 10, true))

	snap := s.AnswersSnapshot()
	snap[1].SelectedOptions[0] = 999

	assert.Equal(t, []uint{10}, s.Answer(1).SelectedOptions)
}

func TestSessionSeedLoadsSavedAnswers(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	s.seed(map[uint]Answer{
		1:  {SelectedOptions: []uint{10}},
		2:  {Text: "draft essay"},
		99: {Text: "unknown question is skipped"},
	})
	assert.True(t, s.IsAnswered(1))
	assert.Equal(t, "draft essay", s.Answer(2).Text)
	assert.False(t, s.IsAnswered(99))
}

func TestSessionRemainingSecondsNilWithoutCountdown(t *testing.T) {
	s := newSession(7, 42, testQuestions())
	assert.Nil(t, s.RemainingSeconds())
}

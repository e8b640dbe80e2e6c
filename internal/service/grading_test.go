package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cscore-lms/backend/internal/model"
)

func choiceQuestion(points float64, correct ...uint) *model.Question {
	q := &model.Question{Type: model.QuestionMultipleChoice, Points: points}
	correctSet := make(map[uint]bool)
	for _, id := range correct {
		correctSet[id] = true
	}
	for id := uint(10); id <= 13; id++ {
		q.Options = append(q.Options, model.QuestionOption{ID: id, IsCorrect: correctSet[id]})
	}
	return q
}

func TestGradeChoiceSingleAnswerAllOrNothing(t *testing.T) {
	q := choiceQuestion(5, 10)

	assert.Equal(t, 5.0, gradeChoice(q, []uint{10}))
	assert.Equal(t, 0.0, gradeChoice(q, []uint{11}))
	assert.Equal(t, 0.0, gradeChoice(q, nil))
	assert.Equal(t, 0.0, gradeChoice(q, []uint{10, 11}), "extra selections void a single-answer question")
}

func TestGradeChoiceTrueFalse(t *testing.T) {
	q := &model.Question{Type: model.QuestionTrueFalse, Points: 2}
	q.Options = []model.QuestionOption{
		{ID: 1, IsCorrect: true},
		{ID: 2},
	}
	assert.Equal(t, 2.0, gradeChoice(q, []uint{1}))
	assert.Equal(t, 0.0, gradeChoice(q, []uint{2}))
}

func TestGradeChoiceMultiAnswerPartialCredit(t *testing.T) {
	q := choiceQuestion(6, 10, 11, 12)

	assert.InDelta(t, 6.0, gradeChoice(q, []uint{10, 11, 12}), 1e-9)
	assert.InDelta(t, 4.0, gradeChoice(q, []uint{10, 11}), 1e-9)
	assert.InDelta(t, 2.0, gradeChoice(q, []uint{10, 11, 13}), 1e-9, "a wrong pick cancels a right one")
	assert.Equal(t, 0.0, gradeChoice(q, []uint{13}), "credit never goes negative")
}

func TestGradeChoiceNoCorrectOptions(t *testing.T) {
	q := &model.Question{Type: model.QuestionMultipleChoice, Points: 5}
	assert.Equal(t, 0.0, gradeChoice(q, []uint{1}))
}

func TestClassifyResult(t *testing.T) {
	assert.Equal(t, model.ResultNotAnswered, classifyResult(0, 5, false))
	assert.Equal(t, model.ResultNotAnswered, classifyResult(5, 5, false))
	assert.Equal(t, model.ResultCorrect, classifyResult(5, 5, true))
	assert.Equal(t, model.ResultPartial, classifyResult(2.5, 5, true))
	assert.Equal(t, model.ResultIncorrect, classifyResult(0, 5, true))
}

func TestFinalStatusPrecedence(t *testing.T) {
	// A grading failure outranks everything else.
	assert.Equal(t, model.StatusError, finalStatus(10, 10, true, true, true))
	assert.Equal(t, model.StatusNoTests, finalStatus(0, 10, false, true, false))
	assert.Equal(t, model.StatusGraded, finalStatus(5, 10, false, false, true))
}

func TestFinalStatusByScore(t *testing.T) {
	assert.Equal(t, model.StatusPassed, finalStatus(10, 10, false, false, false))
	assert.Equal(t, model.StatusPartial, finalStatus(4, 10, false, false, false))
	assert.Equal(t, model.StatusFailed, finalStatus(0, 10, false, false, false))
	assert.Equal(t, model.StatusGraded, finalStatus(0, 0, false, false, false))
}

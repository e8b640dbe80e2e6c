package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscore-lms/backend/internal/attempt"
	"github.com/cscore-lms/backend/internal/model"
)

func TestBuildPayloadRejectsEmptyAttempt(t *testing.T) {
	questions := []model.Question{{ID: 1, Type: model.QuestionEssay}}

	_, _, err := buildSubmissionPayload(questions, nil)
	assert.ErrorIs(t, err, ErrEmptySubmission)

	_, _, err = buildSubmissionPayload(questions, map[uint]attempt.Answer{1: {Text: "   "}})
	assert.ErrorIs(t, err, ErrEmptySubmission)
}

func TestBuildPayloadProgrammingJoinsWithSeparator(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Type: model.QuestionProgramming, Title: "Sum"},
		{ID: 2, Type: model.QuestionProgramming, Title: "Product"},
	}
	answers := map[uint]attempt.Answer{
		1: {Text: "#include <stdio.h>\nint main(){printf(\"a\");}"},
		2: {Text: "#include <stdio.h>\nint main(){printf(\"b\");}"},
	}

	code, language, err := buildSubmissionPayload(questions, answers)
	require.NoError(t, err)

	assert.Equal(t, "C", language)
	assert.Contains(t, code, "\n\n// --- Next Question ---\n\n")
	assert.NotContains(t, code, "// Question", "programming payloads carry no title prefixes")
}

func TestBuildPayloadProgrammingSkipsBlankAnswers(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Type: model.QuestionProgramming},
		{ID: 2, Type: model.QuestionProgramming},
	}
	answers := map[uint]attempt.Answer{
		2: {Text: "print(1)"},
	}

	code, language, err := buildSubmissionPayload(questions, answers)
	require.NoError(t, err)
	assert.Equal(t, "print(1)", code)
	assert.Equal(t, "PYTHON", language)
}

func TestBuildPayloadLanguageFromFirstNonEmptyAnswer(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Type: model.QuestionProgramming},
		{ID: 2, Type: model.QuestionProgramming},
	}
	answers := map[uint]attempt.Answer{
		1: {Text: "public class Main { }"},
		2: {Text: "print('python answer')"},
	}

	_, language, err := buildSubmissionPayload(questions, answers)
	require.NoError(t, err)
	assert.Equal(t, "JAVA", language, "later answers never change the declared language")
}

func TestBuildPayloadProgrammingRequiresCodeAnswer(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Type: model.QuestionProgramming},
		{ID: 2, Type: model.QuestionMultipleChoice},
	}
	answers := map[uint]attempt.Answer{
		2: {SelectedOptions: []uint{10}},
	}

	_, _, err := buildSubmissionPayload(questions, answers)
	assert.ErrorIs(t, err, ErrNoProgrammingAnswer)
}

func TestBuildPayloadGenericPrefixesQuestionTitles(t *testing.T) {
	questions := []model.Question{
		{ID: 5, Type: model.QuestionEssay, Title: "Explain recursion"},
		{ID: 6, Type: model.QuestionEssay, Title: "Explain iteration"},
	}
	answers := map[uint]attempt.Answer{
		5: {Text: "It calls itself."},
		6: {Text: "It loops."},
	}

	code, language, err := buildSubmissionPayload(questions, answers)
	require.NoError(t, err)

	assert.Equal(t, "javascript", language)
	assert.Contains(t, code, "// Question 5: Explain recursion\nIt calls itself.")
	assert.Contains(t, code, "// Question 6: Explain iteration\nIt loops.")
	assert.Contains(t, code, "\n\n// --- Next Question ---\n\n")
}

func TestBuildPayloadChoiceOnlyAttempt(t *testing.T) {
	questions := []model.Question{{ID: 1, Type: model.QuestionTrueFalse}}
	answers := map[uint]attempt.Answer{1: {SelectedOptions: []uint{10}}}

	code, language, err := buildSubmissionPayload(questions, answers)
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Equal(t, "javascript", language)
}

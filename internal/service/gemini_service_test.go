package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreAndFeedback(t *testing.T) {
	raw := "Score: 7.5\nFeedback:\nGood structure, weak examples."
	score, feedback, err := parseScoreAndFeedback(raw)
	require.NoError(t, err)
	assert.Equal(t, "7.5", score)
	assert.Equal(t, "Good structure, weak examples.", feedback)
}

func TestParseScoreAndFeedbackMissingScore(t *testing.T) {
	_, feedback, err := parseScoreAndFeedback("no structured output at all")
	assert.Error(t, err)
	assert.Equal(t, "no structured output at all", feedback)
}

func TestParseScoreAndFeedbackScoreWithTrailingText(t *testing.T) {
	score, _, err := parseScoreAndFeedback("Score: 3.0 out of 5\nFeedback: fine")
	require.NoError(t, err)
	assert.Equal(t, "3.0", score)
}

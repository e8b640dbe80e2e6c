package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubmissionStatusTerminal(t *testing.T) {
	polling := []SubmissionStatus{StatusSubmitted, StatusGrading}
	for _, s := range polling {
		assert.False(t, s.Terminal(), string(s))
	}

	terminal := []SubmissionStatus{
		StatusGraded, StatusPassed, StatusPartial,
		StatusFailed, StatusError, StatusNoTests,
	}
	for _, s := range terminal {
		assert.True(t, s.Terminal(), string(s))
	}
}

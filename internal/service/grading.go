package service

import (
	"github.com/cscore-lms/backend/internal/model"
)

// gradeChoice scores a choice question against the selected option IDs.
//
// Single-answer questions (multiple choice with one correct option, and
// true/false) are all or nothing. Multi-answer questions earn partial credit:
// (correct selections - incorrect selections) / total correct, floored at
// zero, times the question's points.
func gradeChoice(q *model.Question, selected []uint) float64 {
	correct := q.CorrectOptionIDs()
	if len(correct) == 0 {
		return 0
	}

	correctSet := make(map[uint]bool, len(correct))
	for _, id := range correct {
		correctSet[id] = true
	}

	if len(correct) == 1 || q.Type == model.QuestionTrueFalse {
		if len(selected) == 1 && correctSet[selected[0]] {
			return q.Points
		}
		return 0
	}

	hits, misses := 0, 0
	for _, id := range selected {
		if correctSet[id] {
			hits++
		} else {
			misses++
		}
	}
	ratio := float64(hits-misses) / float64(len(correct))
	if ratio < 0 {
		ratio = 0
	}
	return ratio * q.Points
}

// classifyResult maps an earned score to the per-question result status.
// An unanswered question is NOT_ANSWERED regardless of score.
func classifyResult(earned, max float64, answered bool) model.ResultStatus {
	switch {
	case !answered:
		return model.ResultNotAnswered
	case max > 0 && earned >= max:
		return model.ResultCorrect
	case earned > 0:
		return model.ResultPartial
	default:
		return model.ResultIncorrect
	}
}

// finalStatus decides the terminal submission status from the graded
// question results.
//
// gradingFailed forces ERROR. noTests means every programming question lacked
// test cases, which maps to NO_TESTS. manualReview covers essay grading
// fallbacks and maps to GRADED. Otherwise the score percentage decides
// between PASSED, PARTIAL and FAILED.
func finalStatus(earned, max float64, gradingFailed, noTests, manualReview bool) model.SubmissionStatus {
	switch {
	case gradingFailed:
		return model.StatusError
	case noTests:
		return model.StatusNoTests
	case manualReview:
		return model.StatusGraded
	case max <= 0:
		return model.StatusGraded
	}
	pct := earned / max
	switch {
	case pct >= 1:
		return model.StatusPassed
	case pct > 0:
		return model.StatusPartial
	default:
		return model.StatusFailed
	}
}

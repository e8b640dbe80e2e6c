package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cscore-lms/backend/internal/attempt"
	"github.com/cscore-lms/backend/internal/langsniff"
	"github.com/cscore-lms/backend/internal/model"
)

var (
	// ErrEmptySubmission blocks a submit when no question carries a
	// non-empty answer. It never reaches the network.
	ErrEmptySubmission = errors.New("submission must contain at least one non-empty answer")
	// ErrNoProgrammingAnswer blocks a programming submission whose
	// programming questions are all blank.
	ErrNoProgrammingAnswer = errors.New("enter code for at least one programming question before submitting")
)

// questionSeparator joins the flattened per-question answers in the legacy
// single-string payload. Older single-question assignments read the whole
// payload as one code block; the separator keeps multi-question submissions
// backward compatible with that wire contract.
const questionSeparator = "\n\n// --- Next Question ---\n\n"

// placeholderLanguage is declared for non-programming submissions.
const placeholderLanguage = "javascript"

// buildSubmissionPayload flattens an attempt's answers into the legacy
// submission payload.
//
// If any question is PROGRAMMING the whole attempt is a programming
// submission: only non-empty programming answers are joined, and the declared
// language is sniffed from the first of them, even when later answers are in
// different languages. That simplification matches the wire contract and is
// not to be corrected here.
//
// Otherwise every non-empty text answer is prefixed with a question comment
// and joined the same way, declared with a fixed placeholder language.
func buildSubmissionPayload(questions []model.Question, answers map[uint]attempt.Answer) (code, language string, err error) {
	answered := false
	for _, q := range questions {
		if !answers[q.ID].Empty() {
			answered = true
			break
		}
	}
	if !answered {
		return "", "", ErrEmptySubmission
	}

	programming := false
	for _, q := range questions {
		if q.Type == model.QuestionProgramming {
			programming = true
			break
		}
	}

	if programming {
		var parts []string
		language = ""
		for _, q := range questions {
			if q.Type != model.QuestionProgramming {
				continue
			}
			text := answers[q.ID].Text
			if strings.TrimSpace(text) == "" {
				continue
			}
			if language == "" {
				language = string(langsniff.Detect(text))
			}
			parts = append(parts, text)
		}
		if len(parts) == 0 {
			return "", "", ErrNoProgrammingAnswer
		}
		return strings.Join(parts, questionSeparator), language, nil
	}

	var parts []string
	for _, q := range questions {
		text := answers[q.ID].Text
		if strings.TrimSpace(text) == "" {
			continue
		}
		title := q.Title
		if title == "" {
			title = "Question"
		}
		parts = append(parts, fmt.Sprintf("// Question %d: %s\n%s", q.ID, title, text))
	}
	// Choice-only attempts produce an empty code payload; the answers are
	// graded from the per-question selections, not from this string.
	return strings.Join(parts, questionSeparator), placeholderLanguage, nil
}

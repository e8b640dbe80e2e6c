package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/cscore-lms/backend/config"
	"github.com/cscore-lms/backend/internal/model"
)

// EssayGrader scores a free-text answer against an essay question and
// returns feedback for the student.
type EssayGrader interface {
	ScoreEssay(ctx context.Context, question *model.Question, answer string) (feedback string, score float64, err error)
}

type geminiEssayGrader struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewGeminiEssayGrader(cfg *config.Config) (EssayGrader, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Essay answers will be left for manual review.")
		return &geminiEssayGrader{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &geminiEssayGrader{client: model, cfg: cfg}, nil
}

// parseScoreAndFeedback splits the model output into its "Score:" and
// "Feedback:" sections. The model is instructed to emit both prefixes but
// occasionally drops or duplicates the feedback one.
func parseScoreAndFeedback(rawResponse string) (scoreStr string, feedbackStr string, err error) {
	scorePrefix := "Score:"
	feedbackPrefix := "Feedback:"

	scoreIndex := strings.Index(rawResponse, scorePrefix)
	feedbackIndex := strings.Index(rawResponse, feedbackPrefix)

	if scoreIndex == -1 {
		return "", rawResponse, fmt.Errorf("response does not contain 'Score:' prefix. Raw: %s", rawResponse)
	}

	endOfScoreLine := strings.Index(rawResponse[scoreIndex:], "\n")
	if endOfScoreLine == -1 {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix):])
	} else {
		scoreStr = strings.TrimSpace(rawResponse[scoreIndex+len(scorePrefix) : scoreIndex+endOfScoreLine])
	}

	if feedbackIndex != -1 && feedbackIndex > scoreIndex {
		feedbackStr = strings.TrimSpace(rawResponse[feedbackIndex+len(feedbackPrefix):])
	} else {
		if endOfScoreLine != -1 && len(rawResponse) > scoreIndex+endOfScoreLine+1 {
			feedbackStr = strings.TrimSpace(rawResponse[scoreIndex+endOfScoreLine+1:])
			if strings.HasPrefix(strings.ToLower(feedbackStr), "feedback:") {
				feedbackStr = strings.TrimSpace(feedbackStr[len(feedbackPrefix):])
			}
		} else {
			feedbackStr = "Feedback not found in the expected format after the score."
		}
	}
	parts := strings.Fields(scoreStr)
	if len(parts) > 0 {
		scoreStr = parts[0]
	}

	return scoreStr, feedbackStr, nil
}

func (g *geminiEssayGrader) ScoreEssay(ctx context.Context, question *model.Question, answer string) (string, float64, error) {
	if g.client == nil {
		return "", 0.0, fmt.Errorf("gemini client not initialized")
	}

	maxScore := question.Points
	if maxScore <= 0 {
		maxScore = 10.0
		log.Warn().Uint("questionID", question.ID).Float64("fallbackMaxScore", maxScore).Msg("Question points not set, using fallback for essay scoring.")
	}

	outputFormatInstruction := fmt.Sprintf(`
Please provide your evaluation in two distinct parts:
1. Score: A numerical score for the answer, from 0.0 to %.1f (e.g., 2.5, 7.0).
2. Feedback: Constructive feedback. Specifically:
    - Identify strong points of the answer.
    - Point out factual or reasoning errors and briefly explain each.
    - Suggest concrete improvements.

Format your response strictly as:
Score: [Your Numerical Score Here]
Feedback:
[Your Feedback Here]
---
`, maxScore)

	var prompt strings.Builder
	prompt.WriteString("You are an experienced instructor grading a student's written answer on an assignment.\n")
	prompt.WriteString("Evaluate the answer for correctness, completeness and clarity with respect to the question.\n\n")
	prompt.WriteString("Question:\n---\n")
	prompt.WriteString(question.Title)
	if question.Description != "" {
		prompt.WriteString("\n")
		prompt.WriteString(question.Description)
	}
	prompt.WriteString("\n---\n\nStudent's Answer:\n---\n")
	prompt.WriteString(answer)
	prompt.WriteString("\n---\n\n")
	prompt.WriteString(outputFormatInstruction)

	resp, err := g.client.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Uint("questionID", question.ID).Msg("Gemini API error during essay scoring")
		return "", 0.0, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response.")
		return "", 0.0, fmt.Errorf("gemini returned no content")
	}

	fullResponseText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullResponseText += string(txt)
		}
	}
	if fullResponseText == "" {
		return "", 0.0, fmt.Errorf("gemini returned no text content")
	}

	scoreStr, feedbackStr, parseErr := parseScoreAndFeedback(fullResponseText)
	if parseErr != nil {
		log.Warn().Err(parseErr).Str("rawResponse", fullResponseText).Msg("Failed to parse score and feedback from Gemini response")
		return "", 0.0, parseErr
	}

	parsedScore, scoreErr := strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
	if scoreErr != nil {
		log.Warn().Err(scoreErr).Str("scoreStr", scoreStr).Msg("Failed to parse score string to float")
		return "", 0.0, fmt.Errorf("could not parse score value ('%s') from AI response", scoreStr)
	}

	if parsedScore > maxScore {
		parsedScore = maxScore
	}
	if parsedScore < 0 {
		parsedScore = 0
	}

	return strings.TrimSpace(feedbackStr), parsedScore, nil
}

// Package executor talks to the external code-execution sandbox. The sandbox
// compiles and runs student code; this client only shapes requests, enforces
// budgets and normalizes outcomes.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cscore-lms/backend/config"
)

// ErrTimeout marks a client-enforced execution timeout, as opposed to a
// transport failure. Callers surface different guidance for each: a timeout
// usually means an infinite loop or server load, a transport error means
// connectivity.
var ErrTimeout = errors.New("code execution timed out")

// ErrNotConfigured is returned when no sandbox base URL is set.
var ErrNotConfigured = errors.New("code executor is not configured")

const (
	// Short budget for experimentation runs, long budget for graded test
	// passes which execute every test case.
	runTimeout  = 20 * time.Second
	testTimeout = 60 * time.Second
)

// TestCaseInput is one server-held test case sent along for a graded check.
type TestCaseInput struct {
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expectedOutput"`
	Hidden         bool    `json:"hidden"`
	Points         float64 `json:"points"`
}

// TestCaseOutcome is the sandbox verdict for a single test case.
type TestCaseOutcome struct {
	Input           string `json:"input"`
	ExpectedOutput  string `json:"expectedOutput"`
	ActualOutput    string `json:"actualOutput"`
	Passed          bool   `json:"passed"`
	Error           string `json:"error,omitempty"`
	ExecutionTimeMs *int64 `json:"executionTime,omitempty"`
}

// Result is the normalized execution outcome for both run and test calls.
type Result struct {
	Success          bool              `json:"success"`
	Output           string            `json:"output,omitempty"`
	Error            string            `json:"error,omitempty"`
	CompilationError string            `json:"compilationError,omitempty"`
	Message          string            `json:"message,omitempty"`
	TestResults      []TestCaseOutcome `json:"testResults,omitempty"`
	PassedTests      int               `json:"passedTests"`
	TotalTests       int               `json:"totalTests"`
	Score            *float64          `json:"score,omitempty"`
	ExecutionTimeMs  *int64            `json:"executionTime,omitempty"`
}

// CodeExecutor is the contract the grading and attempt workflows depend on.
type CodeExecutor interface {
	// Run executes code against a custom input without grading.
	Run(ctx context.Context, code, language, input string) (*Result, error)
	// Test executes code against the question's test cases, hidden ones
	// included, and returns per-case verdicts.
	Test(ctx context.Context, code, language string, cases []TestCaseInput) (*Result, error)
}

type httpExecutor struct {
	baseURL string
	client  *http.Client
}

func NewClient(cfg *config.Config) CodeExecutor {
	if cfg.ExecutorBaseURL == "" {
		log.Warn().Msg("EXECUTOR_BASE_URL is not set. Code check/run will be unavailable.")
	}
	return &httpExecutor{
		baseURL: cfg.ExecutorBaseURL,
		// Per-call deadlines come from the request context.
		client: &http.Client{},
	}
}

type runRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
	Input    string `json:"input,omitempty"`
}

type testRequest struct {
	Code      string          `json:"code"`
	Language  string          `json:"language"`
	TestCases []TestCaseInput `json:"testCases"`
}

func (e *httpExecutor) Run(ctx context.Context, code, language, input string) (*Result, error) {
	res, err := e.post(ctx, "/api/execute/run", runRequest{Code: code, Language: language, Input: input}, runTimeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, fmt.Errorf("%w: code execution took too long, check for infinite loops", ErrTimeout)
		}
		return nil, err
	}
	// Runs never count toward a grade and the result must say so.
	if res.Message == "" {
		res.Message = "Ran with custom input. The result is for reference only and is not graded."
	}
	return res, nil
}

func (e *httpExecutor) Test(ctx context.Context, code, language string, cases []TestCaseInput) (*Result, error) {
	res, err := e.post(ctx, "/api/execute/test", testRequest{Code: code, Language: language, TestCases: cases}, testTimeout)
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, fmt.Errorf("%w: auto-grading took longer than %s, this may indicate server overload or code performance issues", ErrTimeout, testTimeout)
		}
		return nil, err
	}
	if res.TotalTests == 0 {
		res.TotalTests = len(res.TestResults)
	}
	return res, nil
}

func (e *httpExecutor) post(ctx context.Context, path string, payload any, budget time.Duration) (*Result, error) {
	if e.baseURL == "" {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode execution request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build execution request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			log.Warn().Str("path", path).Dur("budget", budget).Msg("Execution request hit client timeout")
			return nil, ErrTimeout
		}
		log.Error().Err(err).Str("path", path).Msg("Execution request transport failure")
		return nil, fmt.Errorf("execution service unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read execution response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Error().Int("status", resp.StatusCode).Str("path", path).Msg("Execution service returned an error status")
		return nil, fmt.Errorf("execution service returned status %d: %s", resp.StatusCode, string(raw))
	}

	var result Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode execution response: %w", err)
	}
	log.Debug().
		Str("path", path).
		Bool("success", result.Success).
		Dur("elapsed", time.Since(start)).
		Msg("Execution request completed")
	return &result, nil
}

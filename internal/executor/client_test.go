package executor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscore-lms/backend/config"
)

func newTestClient(baseURL string) CodeExecutor {
	return NewClient(&config.Config{ExecutorBaseURL: baseURL})
}

func TestRunPostsCodeAndInput(t *testing.T) {
	var got runRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/execute/run", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Result{Success: true, Output: "42\n"})
	}))
	defer srv.Close()

	res, err := newTestClient(srv.URL).Run(context.Background(), "print(6*7)", "PYTHON", "unused")
	require.NoError(t, err)

	assert.Equal(t, "print(6*7)", got.Code)
	assert.Equal(t, "PYTHON", got.Language)
	assert.Equal(t, "unused", got.Input)
	assert.True(t, res.Success)
	assert.Equal(t, "42\n", res.Output)
	assert.Contains(t, res.Message, "not graded")
}

func TestTestSendsAllCasesIncludingHidden(t *testing.T) {
	var got testRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/execute/test", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(Result{
			Success: true,
			TestResults: []TestCaseOutcome{
				{Passed: true},
				{Passed: false, Error: "wrong answer"},
			},
			PassedTests: 1,
		})
	}))
	defer srv.Close()

	cases := []TestCaseInput{
		{Input: "1", ExpectedOutput: "1"},
		{Input: "secret", ExpectedOutput: "secret", Hidden: true},
	}
	res, err := newTestClient(srv.URL).Test(context.Background(), "code", "C", cases)
	require.NoError(t, err)

	require.Len(t, got.TestCases, 2)
	assert.True(t, got.TestCases[1].Hidden)
	assert.Equal(t, 1, res.PassedTests)
	assert.Equal(t, 2, res.TotalTests, "total is derived from the verdicts when the sandbox omits it")
}

func TestRunTimeoutMapsToErrTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := &httpExecutor{baseURL: srv.URL, client: &http.Client{}}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.post(ctx, "/api/execute/run", runRequest{Code: "while(1);"}, time.Hour)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestErrorStatusIsSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Run(context.Background(), "x", "C", "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
	assert.Contains(t, err.Error(), "500")
}

func TestUnconfiguredClient(t *testing.T) {
	_, err := newTestClient("").Run(context.Background(), "x", "C", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTransportFailureIsNotTimeout(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1").Test(context.Background(), "x", "C", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTimeout)
}

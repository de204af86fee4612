package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	events []CallEvent
}

func (o *recordingObserver) OnCallComplete(e CallEvent) { o.events = append(o.events, e) }

func testConfig(endpoint string) Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = endpoint
	return cfg
}

func replyWith(t *testing.T, text string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(ollamaResponse{Model: "llama3.2", Response: text}))
	}
}

func TestOllamaClient_Generate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "json", req.Format)
		assert.Equal(t, "system prompt", req.System)
		assert.Equal(t, "user prompt", req.Prompt)
		assert.Equal(t, 8192, req.Options.NumPredict)

		replyWith(t, `{"topics":[]}`)(w, r)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	client := NewOllamaClient(testConfig(srv.URL+"/"), obs)
	resp, err := client.Generate(context.Background(), GenerateRequest{SystemPrompt: "system prompt", UserPrompt: "user prompt"})

	require.NoError(t, err)
	assert.Equal(t, `{"topics":[]}`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	require.Len(t, obs.events, 1)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, 1, obs.events[0].Attempts)
}

func TestOllamaClient_Generate_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond

	_, err := NewOllamaClient(cfg, nil).Generate(context.Background(), GenerateRequest{UserPrompt: "test"})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestOllamaClient_Generate_Unavailable(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.MaxRetries = 0

	obs := &recordingObserver{}
	_, err := NewOllamaClient(cfg, obs).Generate(context.Background(), GenerateRequest{UserPrompt: "test"})
	assert.ErrorIs(t, err, ErrUnavailable)
	require.Len(t, obs.events, 1)
	assert.False(t, obs.events[0].Success)
	assert.Equal(t, "UNAVAILABLE", obs.events[0].ErrorCode)
}

func TestOllamaClient_Generate_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
			return
		}
		replyWith(t, "{}")(w, r)
	}))
	defer srv.Close()

	resp, err := NewOllamaClient(testConfig(srv.URL), nil).Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestOllamaClient_Generate_RetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), nil).Generate(context.Background(), GenerateRequest{UserPrompt: "x"})
	assert.ErrorIs(t, err, ErrRetryExhausted)
	assert.Contains(t, err.Error(), "status 500")
}

func TestOllamaClient_Available(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	assert.True(t, NewOllamaClient(testConfig(srv.URL), nil).Available(context.Background()))
	assert.False(t, NewOllamaClient(testConfig("http://127.0.0.1:1"), nil).Available(context.Background()))
}

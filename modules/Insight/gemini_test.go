package Insight

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

func geminiReply(text string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"content": map[string]interface{}{
					"role":  "model",
					"parts": []interface{}{map[string]interface{}{"text": text}},
				},
			},
		},
	}
}

func newTestClient(url string, retries int) *GeminiClient {
	c := NewGeminiClient(GeminiOptions{
		APIKey:          "test-key",
		Model:           "gemini-test",
		BaseURL:         url,
		Timeout:         5 * time.Second,
		MaxRetries:      retries,
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 1024,
	})
	c.backoff = time.Millisecond
	return c
}

func TestGeminiClientSendsPrompt(t *testing.T) {
	var got generateContentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(geminiReply(`[{"title":"ok"}]`))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, 0).Generate(context.Background(), "hello model")
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"ok"}]`, reply)
	require.Len(t, got.Contents, 1)
	assert.Equal(t, "hello model", got.Contents[0].Parts[0].Text)
	assert.Equal(t, 40, got.GenerationConfig.TopK)
	assert.Equal(t, 1024, got.GenerationConfig.MaxOutputTokens)
}

func TestGeminiClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(geminiReply("[]"))
	}))
	defer srv.Close()

	reply, err := newTestClient(srv.URL, 2).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "[]", reply)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGeminiClientGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 1).Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGeminiClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, `{"error":"API key not valid"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 3).Generate(context.Background(), "p")
	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGeminiClientEmptyCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, 2).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, errEmptyReply)
}

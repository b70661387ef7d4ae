package Insight

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TextGenerator sends a prompt to a language model and returns its reply.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiOptions struct {
	APIKey          string
	Model           string
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      int
	Temperature     float64
	TopP            float64
	TopK            int
	MaxOutputTokens int
}

type GeminiClient struct {
	opts    GeminiOptions
	http    *http.Client
	backoff time.Duration
}

var errEmptyReply = errors.New("gemini returned no text")

// statusError is a non-2xx reply; Retryable is set for 429 and 5xx.
type statusError struct {
	Code      int
	Body      string
	Retryable bool
}

func (e *statusError) Error() string {
	return fmt.Sprintf("gemini responded %d: %s", e.Code, e.Body)
}

func NewGeminiClient(opts GeminiOptions) *GeminiClient {
	if opts.Model == "" {
		opts.Model = "gemini-2.0-flash"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &GeminiClient{
		opts:    opts,
		http:    &http.Client{Timeout: opts.Timeout},
		backoff: 100 * time.Millisecond,
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(generateContentRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     g.opts.Temperature,
			TopP:            g.opts.TopP,
			TopK:            g.opts.TopK,
			MaxOutputTokens: g.opts.MaxOutputTokens,
		},
	})
	if err != nil {
		return "", err
	}

	var lastErr error
	for attempt := 0; attempt <= g.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := g.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(wait):
			}
		}

		reply, err := g.call(ctx, payload)
		if err == nil {
			return reply, nil
		}
		lastErr = err

		var se *statusError
		if errors.As(err, &se) && !se.Retryable {
			return "", err
		}
		if errors.Is(err, errEmptyReply) || ctx.Err() != nil {
			return "", err
		}
	}
	return "", fmt.Errorf("gemini request failed after %d attempts: %w", g.opts.MaxRetries+1, lastErr)
}

func (g *GeminiClient) call(ctx context.Context, payload []byte) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent", strings.TrimRight(g.opts.BaseURL, "/"), g.opts.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.opts.APIKey)

	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &statusError{
			Code:      resp.StatusCode,
			Body:      strings.TrimSpace(string(body)),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	var sb strings.Builder
	for _, c := range decoded.Candidates {
		for _, p := range c.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", errEmptyReply
	}
	return sb.String(), nil
}

// Package genai provides the multi-modal completion client backing the
// synthesis stage, implemented directly against the Gemini generateContent
// HTTP API.
package genai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

// GeminiClient calls the Gemini generateContent endpoint with combined
// text and image input. It implements forecast.Completer.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	trace      bool
	log        *zap.SugaredLogger
}

// NewGeminiClient returns a client for the given model (e.g.
// "gemini-1.5-flash"). When trace is enabled, each call logs prompt size
// and model latency at debug level.
func NewGeminiClient(apiKey, model string, trace bool, log *zap.SugaredLogger) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
		trace: trace,
		log:   log,
	}
}

// ─── GEMINI API SHAPES ───────────────────────────────────────────────────────

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *geminiBlobPart `json:"inline_data,omitempty"`
}

type geminiBlobPart struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

// ─── IMPLEMENTATION ──────────────────────────────────────────────────────────

// Complete sends the prompt and image as one multi-modal request and returns
// the text of the first candidate.
func (c *GeminiClient) Complete(ctx context.Context, prompt string, image *forecast.Image) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("genai: api key is not configured")
	}

	parts := []geminiPart{{Text: prompt}}
	if image != nil {
		parts = append(parts, geminiPart{
			InlineData: &geminiBlobPart{
				MIMEType: image.MIME,
				Data:     base64.StdEncoding.EncodeToString(image.Data),
			},
		})
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{{Parts: parts}},
	}

	start := time.Now()
	text, err := c.call(ctx, reqBody)
	if c.trace {
		imageBytes := 0
		if image != nil {
			imageBytes = len(image.Data)
		}
		c.log.Debugw("genai: model call traced",
			"model", c.model,
			"prompt_chars", len(prompt),
			"image_bytes", imageBytes,
			"latency", time.Since(start),
			"failed", err != nil,
		)
	}
	return text, err
}

// call sends one request to the generateContent endpoint and returns the
// first text part of the first candidate.
func (c *GeminiClient) call(ctx context.Context, reqBody geminiRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("genai: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("genai: build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("genai: http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB cap
	if err != nil {
		return "", fmt.Errorf("genai: read response body: %w", err)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return "", fmt.Errorf("genai: unmarshal response: %w", err)
	}

	if parsed.Error != nil {
		return "", fmt.Errorf("genai: API error %s (%d): %s", parsed.Error.Status, parsed.Error.Code, parsed.Error.Message)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("genai: unexpected status %d: %.200s", resp.StatusCode, string(respBytes))
	}

	for _, cand := range parsed.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}

	return "", fmt.Errorf("genai: no text content in response")
}

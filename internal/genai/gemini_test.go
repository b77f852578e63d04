package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Dowline1/SurfSmart-AI/internal/forecast"
)

func testImage() *forecast.Image {
	return &forecast.Image{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}, MIME: "image/jpeg"}
}

func TestCompleteSendsMultiModalRequest(t *testing.T) {
	var captured geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/models/gemini-1.5-flash:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Solid conditions today."}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", "gemini-1.5-flash", false, zap.NewNop().Sugar())
	c.baseURL = srv.URL

	text, err := c.Complete(context.Background(), "describe the surf", testImage())
	require.NoError(t, err)
	assert.Equal(t, "Solid conditions today.", text)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 2)
	assert.Equal(t, "describe the surf", captured.Contents[0].Parts[0].Text)

	blob := captured.Contents[0].Parts[1].InlineData
	require.NotNil(t, blob)
	assert.Equal(t, "image/jpeg", blob.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(testImage().Data), blob.Data)
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"API key not valid"}}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("bad-key", "gemini-1.5-flash", false, zap.NewNop().Sugar())
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "prompt", testImage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key not valid")
}

func TestCompleteNoTextContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", "gemini-1.5-flash", false, zap.NewNop().Sugar())
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "prompt", testImage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text content")
}

func TestCompleteMissingAPIKey(t *testing.T) {
	c := NewGeminiClient("", "gemini-1.5-flash", false, zap.NewNop().Sugar())

	_, err := c.Complete(context.Background(), "prompt", testImage())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api key is not configured")
}

func TestCompleteWithoutImageSendsTextOnly(t *testing.T) {
	var captured geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer srv.Close()

	c := NewGeminiClient("test-key", "gemini-1.5-flash", true, zap.NewNop().Sugar())
	c.baseURL = srv.URL

	_, err := c.Complete(context.Background(), "prompt", nil)
	require.NoError(t, err)
	require.Len(t, captured.Contents[0].Parts, 1)
	assert.Nil(t, captured.Contents[0].Parts[0].InlineData)
}

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rv2ven/rv2-relay/internal/biz/domain"
)

func testRequest() *GenerateRequest {
	return &GenerateRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: "SYSTEM"}}},
			{Role: "user", Parts: []Part{{Text: "hola"}}},
		},
		GenerationConfig: GenerationConfig{Temperature: 0.7, TopK: 40, TopP: 0.95, MaxOutputTokens: 1024},
	}
}

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotBody map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"¡Hola!"},{"text":"Soy RAI"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	c := NewClient("g-key", srv.URL, "", time.Second)
	resp, err := c.GenerateContent(context.Background(), testRequest())
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", gotPath)
	assert.Equal(t, "g-key", gotKey)

	gen := gotBody["generationConfig"].(map[string]any)
	assert.InDelta(t, 0.7, gen["temperature"], 0.0001)
	assert.Equal(t, float64(40), gen["topK"])
	assert.InDelta(t, 0.95, gen["topP"], 0.0001)
	assert.Equal(t, float64(1024), gen["maxOutputTokens"])
	assert.Len(t, gotBody["contents"], 2)

	first := resp.FirstCandidate()
	require.NotNil(t, first)
	assert.Equal(t, "STOP", first.FinishReason)
	require.NotNil(t, first.Content)
	assert.Equal(t, []Part{{Text: "¡Hola!"}, {Text: "Soy RAI"}}, first.Content.Parts)
}

func TestGenerateContent_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	}))
	defer srv.Close()

	c := NewClient("g-key", srv.URL, "", time.Second)
	_, err := c.GenerateContent(context.Background(), testRequest())

	var gwErr *domain.GatewayError
	require.ErrorAs(t, err, &gwErr)
	assert.Equal(t, http.StatusTooManyRequests, gwErr.StatusCode)
	assert.Equal(t, "rate limited", gwErr.Body)
	assert.Equal(t, "Gemini", gwErr.Provider)
}

func TestGenerateContent_NoCandidates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
	}))
	defer srv.Close()

	c := NewClient("g-key", srv.URL, "", time.Second)
	resp, err := c.GenerateContent(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Nil(t, resp.FirstCandidate())
}

func TestGenerateContent_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	c := NewClient("g-key", srv.URL, "", time.Second)
	_, err := c.GenerateContent(context.Background(), testRequest())
	require.Error(t, err)

	var gwErr *domain.GatewayError
	assert.False(t, errors.As(err, &gwErr))
}

func TestRedactKey(t *testing.T) {
	msg := `Post "http://x/v1beta/models/m:generateContent?key=se+cret": dial tcp: refused`
	assert.NotContains(t, redactKey(msg, "se cret"), "se+cret")
	assert.Equal(t, "plain", redactKey("plain", ""))
}

package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOllamaEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		assert.Equal(t, "Bearer embed-token", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nomic-embed-text", body["model"])
		assert.Equal(t, "def login(): pass", body["input"])

		_, _ = w.Write([]byte(`{"embeddings":[[0.1,0.2,0.3]]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(
		OllamaEndpointConfig{BaseURL: srv.URL + "/", Model: "nomic-embed-text", Token: "embed-token"},
		OllamaEndpointConfig{BaseURL: srv.URL, Model: "qwen2.5-coder"},
	)
	vec, err := p.Embed(context.Background(), "def login(): pass")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec)
	assert.Equal(t, "qwen2.5-coder", p.ModelName())
}

func TestOllamaEmbedEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL}, OllamaEndpointConfig{BaseURL: srv.URL})
	_, err := p.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestOllamaGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body struct {
			Model    string              `json:"model"`
			Stream   bool                `json:"stream"`
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.False(t, body.Stream)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0]["role"])
		assert.Equal(t, "explain", body.Messages[0]["content"])

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"<think>hmm</think>\nIt logs in."}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL}, OllamaEndpointConfig{BaseURL: srv.URL, Model: "m"})
	out, err := p.Generate(context.Background(), "explain")
	require.NoError(t, err)
	assert.Equal(t, "It logs in.", out)
}

func TestOllamaAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL}, OllamaEndpointConfig{BaseURL: srv.URL})
	_, err := p.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ollama API error (404)")
	assert.Contains(t, err.Error(), "model not found")
}

func TestStripThinking(t *testing.T) {
	assert.Equal(t, "answer", stripThinking("<think>a\nb</think>\n\nanswer"))
	assert.Equal(t, "no tags", stripThinking("no tags"))
	assert.Equal(t, "<think>unterminated", stripThinking("<think>unterminated"))
}

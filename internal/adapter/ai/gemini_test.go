package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGeminiStub answers batchEmbedContents and records the task type of
// each request.
func newGeminiStub(t *testing.T, tasks *[]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "text-embedding-004:batchEmbedContents"), r.URL.Path)

		var body struct {
			Requests []struct {
				TaskType string `json:"taskType"`
			} `json:"requests"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Requests, 1)
		*tasks = append(*tasks, body.Requests[0].TaskType)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embeddings":[{"values":[0.5,0.25]}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiEmbedTaskTypes(t *testing.T) {
	var tasks []string
	srv := newGeminiStub(t, &tasks)

	p, err := NewGeminiProvider(context.Background(), GeminiConfig{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)

	vec, err := p.EmbedDocument(context.Background(), "func Login() {}")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25}, vec)

	_, err = p.Embed(context.Background(), "where is login")
	require.NoError(t, err)

	assert.Equal(t, []string{"RETRIEVAL_DOCUMENT", "CODE_RETRIEVAL_QUERY"}, tasks)
	assert.Equal(t, "gemini-1.5-flash-002", p.ModelName())
}

func TestGeminiRequiresAPIKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), GeminiConfig{})
	assert.Error(t, err)
}

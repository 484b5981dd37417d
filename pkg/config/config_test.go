package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AI_PROVIDER", "")
	t.Setenv("SEARCH_MATCH_THRESHOLD", "")

	cfg := Load()
	assert.Equal(t, ProviderOllama, cfg.AIProvider)
	assert.Equal(t, 0.5, cfg.SearchMatchThreshold)
	assert.Equal(t, 0.3, cfg.ExplainMatchThreshold)
	assert.Equal(t, 10, cfg.MatchCount)
	assert.Equal(t, 2*time.Minute, cfg.GenerateTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SEARCH_MATCH_THRESHOLD", "0.72")
	t.Setenv("EMBED_TIMEOUT", "5s")
	t.Setenv("MCP_ENABLED", "true")
	t.Setenv("MATCH_COUNT", "not-a-number")

	cfg := Load()
	assert.Equal(t, 0.72, cfg.SearchMatchThreshold)
	assert.Equal(t, 5*time.Second, cfg.EmbedTimeout)
	assert.True(t, cfg.MCPEnabled)
	assert.Equal(t, 10, cfg.MatchCount, "unparseable values fall back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"gemini without key", func(c *Config) { c.AIProvider = ProviderGemini; c.GeminiAPIKey = "" }, "GEMINI_API_KEY"},
		{"unknown provider", func(c *Config) { c.AIProvider = "bard" }, "unknown AI_PROVIDER"},
		{"search looser than explain", func(c *Config) { c.SearchMatchThreshold = 0.1 }, "SEARCH_MATCH_THRESHOLD"},
		{"zero match count", func(c *Config) { c.MatchCount = 0 }, "MATCH_COUNT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDSNMasksPassword(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://user:secret@db:5432/codeoh?sslmode=disable"}
	assert.NotContains(t, cfg.DSN(), "secret")
	assert.Contains(t, cfg.DSN(), "user")
}

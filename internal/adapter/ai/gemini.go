package ai

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// Embedding task types sent to Gemini.
const (
	geminiQueryTask    = "CODE_RETRIEVAL_QUERY"
	geminiDocumentTask = "RETRIEVAL_DOCUMENT"
)

// GeminiConfig selects the Gemini models used for embedding and generation.
type GeminiConfig struct {
	APIKey     string
	EmbedModel string // e.g. text-embedding-004
	ChatModel  string // e.g. gemini-1.5-flash-002
	BaseURL    string // empty = Google's endpoint
}

// GeminiProvider implements port.AIProvider on the Gemini API.
type GeminiProvider struct {
	models     *genai.Models
	embedModel string
	chatModel  string
}

// NewGeminiProvider creates a Gemini-backed AI provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.EmbedModel == "" {
		cfg.EmbedModel = "text-embedding-004"
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = "gemini-1.5-flash-002"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiProvider{
		models:     client.Models,
		embedModel: cfg.EmbedModel,
		chatModel:  cfg.ChatModel,
	}, nil
}

// ModelName returns the generation model identifier.
func (g *GeminiProvider) ModelName() string {
	return g.chatModel
}

// Embed embeds a code search query.
func (g *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	return g.embed(ctx, text, geminiQueryTask)
}

// EmbedDocument embeds a snippet for storage.
func (g *GeminiProvider) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	return g.embed(ctx, text, geminiDocumentTask)
}

func (g *GeminiProvider) embed(ctx context.Context, text, task string) ([]float32, error) {
	result, err := g.models.EmbedContent(ctx, g.embedModel,
		genai.Text(text),
		&genai.EmbedContentConfig{TaskType: task},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("gemini embed: empty response")
	}
	return result.Embeddings[0].Values, nil
}

// Generate sends the prompt and returns the concatenated text of the first candidate.
func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.chatModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}

package port

import "context"

// Embedder turns text into a fixed-length vector. Models that embed
// queries and stored documents differently get the matching call.
type Embedder interface {
	// Embed embeds a search query.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedDocument embeds text that will be stored and searched against.
	EmbedDocument(ctx context.Context, text string) ([]float32, error)
}

// Generator sends a single prompt to a generative model and returns its text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// AIProvider abstracts the AI/LLM backend for embeddings and generation.
// Implementations target Ollama or Gemini.
type AIProvider interface {
	Embedder
	Generator

	// ModelName returns the identifier of the generation model being used.
	ModelName() string
}

// Package retrieval builds the textual context a generator is grounded on:
// either the owner's code snippets most similar to the message, or a
// summary of everything the owner has indexed.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// Sentinels returned instead of an empty context. Generators check for them.
const (
	NoRelevantCode = "No relevant code found in your indexed files."
	NothingIndexed = "No code has been indexed for this user yet."
)

// Options tunes retrieval.
type Options struct {
	SearchThreshold  float64 // code_search
	ExplainThreshold float64 // code_explanation, code_optimization, test_generation
	MatchCount       int
}

// DefaultOptions matches the configuration defaults.
func DefaultOptions() Options {
	return Options{SearchThreshold: 0.5, ExplainThreshold: 0.3, MatchCount: 10}
}

// Builder produces per-request context strings. It holds no state between calls.
type Builder struct {
	embedder port.Embedder
	vectors  port.VectorStore
	opts     Options
}

// NewBuilder creates a context builder.
func NewBuilder(embedder port.Embedder, vectors port.VectorStore, opts Options) *Builder {
	if opts.MatchCount <= 0 {
		opts.MatchCount = DefaultOptions().MatchCount
	}
	return &Builder{embedder: embedder, vectors: vectors, opts: opts}
}

// UsesRetrieval reports whether intent is grounded on similar snippets
// rather than on the repository summary.
func UsesRetrieval(intent domain.QueryIntent) bool {
	switch intent {
	case domain.IntentCodeSearch, domain.IntentCodeExplanation,
		domain.IntentCodeOptimization, domain.IntentTestGeneration:
		return true
	}
	return false
}

// Threshold returns the similarity cut-off used for intent.
func (b *Builder) Threshold(intent domain.QueryIntent) float64 {
	if intent == domain.IntentCodeSearch {
		return b.opts.SearchThreshold
	}
	return b.opts.ExplainThreshold
}

// Build returns the context for intent: retrieved snippets or the summary.
func (b *Builder) Build(ctx context.Context, intent domain.QueryIntent, ownerID, message string) (string, error) {
	if UsesRetrieval(intent) {
		return b.Retrieve(ctx, ownerID, message, b.Threshold(intent))
	}
	return b.Summary(ctx, ownerID)
}

// Retrieve embeds message and formats the owner's matching snippets.
func (b *Builder) Retrieve(ctx context.Context, ownerID, message string, threshold float64) (string, error) {
	hits, err := b.Search(ctx, ownerID, message, threshold)
	if err != nil {
		return "", err
	}
	return FormatSnippets(hits), nil
}

// Search embeds message and returns the owner's snippets above threshold.
func (b *Builder) Search(ctx context.Context, ownerID, message string, threshold float64) ([]domain.SimilarSnippet, error) {
	vec, err := b.embedder.Embed(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := b.vectors.SimilaritySearch(ctx, ownerID, vec, threshold, b.opts.MatchCount)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}

	slog.Debug("retrieved snippets", "user_id", ownerID, "threshold", threshold, "hits", len(hits))
	return hits, nil
}

// FormatSnippets renders hits as labelled blocks separated by a blank line.
// No hits yields NoRelevantCode.
func FormatSnippets(hits []domain.SimilarSnippet) string {
	if len(hits) == 0 {
		return NoRelevantCode
	}
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("File: %s\nCode: %s", h.Label, h.Text)
	}
	return strings.Join(parts, "\n\n")
}

// Summary renders the owner's repository summary.
func (b *Builder) Summary(ctx context.Context, ownerID string) (string, error) {
	records, err := b.vectors.ListByOwner(ctx, ownerID)
	if err != nil {
		return "", fmt.Errorf("list embeddings: %w", err)
	}
	return Summarize(records).Render(), nil
}

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// IndexService embeds code snippets and appends them to the vector store.
type IndexService struct {
	embedder port.Embedder
	vectors  port.VectorStore
}

// NewIndexService creates a new index service.
func NewIndexService(embedder port.Embedder, vectors port.VectorStore) *IndexService {
	return &IndexService{embedder: embedder, vectors: vectors}
}

// AddSnippet embeds code and stores it under label for ownerID. Indexing
// the same label twice stores two records.
func (s *IndexService) AddSnippet(ctx context.Context, ownerID, label, code string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("add snippet: owner is required")
	}

	vec, err := s.embedder.EmbedDocument(ctx, code)
	if err != nil {
		return fmt.Errorf("embed snippet: %w", err)
	}

	rec := &domain.CodeEmbeddingRecord{
		OwnerID: ownerID,
		Label:   label,
		Text:    code,
		Vector:  vec,
	}
	if err := s.vectors.Insert(ctx, rec); err != nil {
		return fmt.Errorf("insert snippet: %w", err)
	}

	slog.Info("snippet indexed", "user_id", ownerID, "file_name", label, "id", rec.ID, "dims", len(vec))
	return nil
}

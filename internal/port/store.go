package port

import (
	"context"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
)

// VectorStore persists code embeddings and answers owner-scoped similarity
// queries. Every read takes the owner id; there is no unscoped read.
type VectorStore interface {
	// Insert appends a new record. Records are never updated.
	Insert(ctx context.Context, rec *domain.CodeEmbeddingRecord) error

	// SimilaritySearch returns up to topK records of ownerID whose cosine
	// similarity to query is above threshold, best first.
	SimilaritySearch(ctx context.Context, ownerID string, query []float32, threshold float64, topK int) ([]domain.SimilarSnippet, error)

	// ListByOwner returns every record of ownerID (vectors omitted).
	ListByOwner(ctx context.Context, ownerID string) ([]domain.CodeEmbeddingRecord, error)
}

// FileStore is the relational side: projects and files per owner.
type FileStore interface {
	// FindFileByOwner looks a file up by exact name across all of the owner's projects.
	FindFileByOwner(ctx context.Context, ownerID, filename string) (*domain.File, error)

	// FirstProjectByOwner returns the owner's oldest project.
	FirstProjectByOwner(ctx context.Context, ownerID string) (*domain.Project, error)

	CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)

	// FindFileInProject looks a file up by exact name within one project.
	FindFileInProject(ctx context.Context, projectID, filename string) (*domain.File, error)

	CreateFile(ctx context.Context, f *domain.File) (*domain.File, error)

	// UpdateFileContent overwrites a file's content. When expected is non-nil
	// the write only happens if the stored content still equals *expected.
	UpdateFileContent(ctx context.Context, fileID, content string, expected *string) error

	ListFilesByOwner(ctx context.Context, ownerID string) ([]domain.File, error)
	ListProjectsByOwner(ctx context.Context, ownerID string) ([]domain.Project, error)
}

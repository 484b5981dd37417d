package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// VectorStore handles pgvector-specific operations for code embeddings.
// Every read is filtered by owner in SQL.
type VectorStore struct {
	db        *sqlx.DB
	dimension int
	timeout   time.Duration
}

// NewVectorStore creates a vector store backed by the given Postgres store.
// A dimension of zero accepts vectors of any length.
func NewVectorStore(store *PostgresStore, dimension int) *VectorStore {
	return &VectorStore{db: store.db, dimension: dimension, timeout: store.timeout}
}

func (v *VectorStore) checkDimension(vec []float32) error {
	if len(vec) == 0 || (v.dimension > 0 && len(vec) != v.dimension) {
		return fmt.Errorf("%w: got %d, want %d", port.ErrDimensionMismatch, len(vec), v.dimension)
	}
	return nil
}

// Insert appends a new embedding record.
func (v *VectorStore) Insert(ctx context.Context, rec *domain.CodeEmbeddingRecord) error {
	if err := v.checkDimension(rec.Vector); err != nil {
		return err
	}

	ctx, cancel := bound(ctx, v.timeout)
	defer cancel()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	err := v.db.QueryRowxContext(ctx,
		`INSERT INTO code_embeddings (id, user_id, file_name, code_snippet, embedding)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		rec.ID, rec.OwnerID, rec.Label, rec.Text, pgvector.NewVector(rec.Vector),
	).Scan(&rec.CreatedAt)
	if err != nil {
		return wrap(ctx, "store embedding", err)
	}
	return nil
}

// SimilaritySearch calls match_code, which returns the owner's records whose
// cosine similarity to query is above threshold, best first.
func (v *VectorStore) SimilaritySearch(ctx context.Context, ownerID string, query []float32, threshold float64, topK int) ([]domain.SimilarSnippet, error) {
	if err := v.checkDimension(query); err != nil {
		return nil, err
	}

	ctx, cancel := bound(ctx, v.timeout)
	defer cancel()

	hits := []domain.SimilarSnippet{}
	err := v.db.SelectContext(ctx, &hits,
		`SELECT file_name, code_snippet, similarity FROM match_code($1, $2, $3, $4)`,
		ownerID, pgvector.NewVector(query), threshold, topK,
	)
	if err != nil {
		return nil, wrap(ctx, "search similar", err)
	}
	return hits, nil
}

// ListByOwner returns the owner's records without vectors, oldest first.
func (v *VectorStore) ListByOwner(ctx context.Context, ownerID string) ([]domain.CodeEmbeddingRecord, error) {
	ctx, cancel := bound(ctx, v.timeout)
	defer cancel()

	records := []domain.CodeEmbeddingRecord{}
	err := v.db.SelectContext(ctx, &records,
		`SELECT id, user_id, file_name, code_snippet, created_at
		 FROM code_embeddings WHERE user_id = $1
		 ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, wrap(ctx, "list embeddings", err)
	}
	return records, nil
}

package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

func TestVectorInsert(t *testing.T) {
	pg, mock := newMockStore(t)
	vs := NewVectorStore(pg, 3)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO code_embeddings \(id, user_id, file_name, code_snippet, embedding\)`).
		WithArgs(sqlmock.AnyArg(), "U", "auth.py", "def login(): pass", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	rec := &domain.CodeEmbeddingRecord{OwnerID: "U", Label: "auth.py", Text: "def login(): pass", Vector: []float32{0.1, 0.2, 0.3}}
	require.NoError(t, vs.Insert(context.Background(), rec))
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, now, rec.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVectorDimensionMismatch(t *testing.T) {
	pg, mock := newMockStore(t)
	vs := NewVectorStore(pg, 768)

	err := vs.Insert(context.Background(), &domain.CodeEmbeddingRecord{OwnerID: "U", Vector: []float32{1, 2}})
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)

	_, err = vs.SimilaritySearch(context.Background(), "U", nil, 0.5, 10)
	assert.ErrorIs(t, err, port.ErrDimensionMismatch)
	assert.NoError(t, mock.ExpectationsWereMet(), "no query reaches the database")
}

func TestSimilaritySearchPassesOwner(t *testing.T) {
	pg, mock := newMockStore(t)
	vs := NewVectorStore(pg, 2)

	mock.ExpectQuery(`SELECT file_name, code_snippet, similarity FROM match_code\(\$1, \$2, \$3, \$4\)`).
		WithArgs("U", sqlmock.AnyArg(), 0.5, 10).
		WillReturnRows(sqlmock.NewRows([]string{"file_name", "code_snippet", "similarity"}).
			AddRow("auth.py", "def login(): pass", 0.91))

	hits, err := vs.SimilaritySearch(context.Background(), "U", []float32{1, 0}, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "auth.py", hits[0].Label)
	assert.InDelta(t, 0.91, hits[0].Similarity, 1e-9)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwner(t *testing.T) {
	pg, mock := newMockStore(t)
	vs := NewVectorStore(pg, 0)

	mock.ExpectQuery(`FROM code_embeddings WHERE user_id = \$1`).
		WithArgs("U").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "file_name", "code_snippet", "created_at"}).
			AddRow("e1", "U", "a.go", "package a", time.Now()).
			AddRow("e2", "U", "b.py", "x = 1", time.Now()))

	records, err := vs.ListByOwner(context.Background(), "U")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "U", records[0].OwnerID)
	assert.Equal(t, "b.py", records[1].Label)
}

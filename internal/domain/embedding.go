package domain

import "time"

// CodeEmbeddingRecord is an indexed code snippet owned by a single user.
// Records are append-only: re-indexing a file inserts a new record.
type CodeEmbeddingRecord struct {
	ID        string    `json:"id"           db:"id"`
	OwnerID   string    `json:"user_id"      db:"user_id"`
	Label     string    `json:"file_name"    db:"file_name"`
	Text      string    `json:"code_snippet" db:"code_snippet"`
	Vector    []float32 `json:"-"            db:"-"`
	CreatedAt time.Time `json:"created_at"   db:"created_at"`
}

// SimilarSnippet is returned by similarity search, including its score.
type SimilarSnippet struct {
	Label      string  `json:"file_name"    db:"file_name"`
	Text       string  `json:"code_snippet" db:"code_snippet"`
	Similarity float64 `json:"similarity"   db:"similarity"`
}

package testutil

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// MemoryVectorStore is an owner-scoped in-memory port.VectorStore.
type MemoryVectorStore struct {
	mu      sync.RWMutex
	records []domain.CodeEmbeddingRecord
}

// NewMemoryVectorStore returns an empty store.
func NewMemoryVectorStore() *MemoryVectorStore {
	return &MemoryVectorStore{}
}

// Insert implements port.VectorStore.
func (m *MemoryVectorStore) Insert(_ context.Context, rec *domain.CodeEmbeddingRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r := *rec
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	r.Vector = append([]float32(nil), rec.Vector...)
	m.records = append(m.records, r)
	rec.ID, rec.CreatedAt = r.ID, r.CreatedAt
	return nil
}

// SimilaritySearch implements port.VectorStore with cosine similarity.
func (m *MemoryVectorStore) SimilaritySearch(_ context.Context, ownerID string, query []float32, threshold float64, topK int) ([]domain.SimilarSnippet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []domain.SimilarSnippet
	for _, r := range m.records {
		if r.OwnerID != ownerID {
			continue
		}
		if s := Cosine(query, r.Vector); s > threshold {
			hits = append(hits, domain.SimilarSnippet{Label: r.Label, Text: r.Text, Similarity: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Similarity > hits[j].Similarity })
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

// ListByOwner implements port.VectorStore.
func (m *MemoryVectorStore) ListByOwner(_ context.Context, ownerID string) ([]domain.CodeEmbeddingRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []domain.CodeEmbeddingRecord
	for _, r := range m.records {
		if r.OwnerID == ownerID {
			r.Vector = nil
			out = append(out, r)
		}
	}
	return out, nil
}

// Count returns how many records carry label for ownerID.
func (m *MemoryVectorStore) Count(ownerID, label string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := 0
	for _, r := range m.records {
		if r.OwnerID == ownerID && r.Label == label {
			n++
		}
	}
	return n
}

// Cosine returns the cosine similarity of a and b, 0 when either is zero
// or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// MemoryFileStore is an in-memory port.FileStore.
type MemoryFileStore struct {
	mu       sync.RWMutex
	projects []domain.Project
	files    []domain.File

	// Writes counts successful CreateProject, CreateFile and UpdateFileContent calls.
	Writes int
}

// NewMemoryFileStore returns an empty store.
func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{}
}

func (m *MemoryFileStore) ownerProjects(ownerID string) map[string]bool {
	ids := map[string]bool{}
	for _, p := range m.projects {
		if p.UserID == ownerID {
			ids[p.ID] = true
		}
	}
	return ids
}

// FindFileByOwner implements port.FileStore.
func (m *MemoryFileStore) FindFileByOwner(_ context.Context, ownerID, filename string) (*domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owned := m.ownerProjects(ownerID)
	for _, f := range m.files {
		if owned[f.ProjectID] && f.Filename == filename {
			out := f
			return &out, nil
		}
	}
	return nil, port.ErrFileNotFound
}

// FirstProjectByOwner implements port.FileStore.
func (m *MemoryFileStore) FirstProjectByOwner(_ context.Context, ownerID string) (*domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, p := range m.projects {
		if p.UserID == ownerID {
			out := p
			return &out, nil
		}
	}
	return nil, port.ErrProjectNotFound
}

// CreateProject implements port.FileStore.
func (m *MemoryFileStore) CreateProject(_ context.Context, p *domain.Project) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := *p
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	out.CreatedAt = time.Now()
	m.projects = append(m.projects, out)
	m.Writes++
	return &out, nil
}

// FindFileInProject implements port.FileStore.
func (m *MemoryFileStore) FindFileInProject(_ context.Context, projectID, filename string) (*domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.files {
		if f.ProjectID == projectID && f.Filename == filename {
			out := f
			return &out, nil
		}
	}
	return nil, port.ErrFileNotFound
}

// CreateFile implements port.FileStore.
func (m *MemoryFileStore) CreateFile(_ context.Context, f *domain.File) (*domain.File, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := *f
	if out.ID == "" {
		out.ID = uuid.NewString()
	}
	now := time.Now()
	out.UploadedAt, out.UpdatedAt = now, now
	m.files = append(m.files, out)
	m.Writes++
	return &out, nil
}

// UpdateFileContent implements port.FileStore.
func (m *MemoryFileStore) UpdateFileContent(_ context.Context, fileID, content string, expected *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.files {
		if m.files[i].ID != fileID {
			continue
		}
		if expected != nil && m.files[i].Content != *expected {
			return port.ErrContentConflict
		}
		m.files[i].Content = content
		m.files[i].UpdatedAt = time.Now()
		m.Writes++
		return nil
	}
	return port.ErrFileNotFound
}

// ListFilesByOwner implements port.FileStore.
func (m *MemoryFileStore) ListFilesByOwner(_ context.Context, ownerID string) ([]domain.File, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	owned := m.ownerProjects(ownerID)
	out := []domain.File{}
	for _, f := range m.files {
		if owned[f.ProjectID] {
			out = append(out, f)
		}
	}
	return out, nil
}

// ListProjectsByOwner implements port.FileStore.
func (m *MemoryFileStore) ListProjectsByOwner(_ context.Context, ownerID string) ([]domain.Project, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Project{}
	for _, p := range m.projects {
		if p.UserID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

// SeedFile creates a project (if needed) and a file for ownerID.
func (m *MemoryFileStore) SeedFile(ownerID, filename, content string) *domain.File {
	ctx := context.Background()
	p, err := m.FirstProjectByOwner(ctx, ownerID)
	if err != nil {
		p, _ = m.CreateProject(ctx, &domain.Project{UserID: ownerID, Name: domain.DefaultProjectName})
	}
	f, _ := m.CreateFile(ctx, &domain.File{ProjectID: p.ID, Filename: filename, Content: content})

	m.mu.Lock()
	m.Writes = 0
	m.mu.Unlock()
	return f
}

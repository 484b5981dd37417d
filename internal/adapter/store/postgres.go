package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewPostgresStore opens a connection and returns a store instance.
// Every call is bounded by timeout (zero disables the bound).
func NewPostgresStore(databaseURL string, timeout time.Duration) (*PostgresStore, error) {
	db, err := sqlx.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := NewPostgresStoreFromDB(db, timeout)
	if err := s.Ping(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return s, nil
}

// NewPostgresStoreFromDB wraps an existing connection pool.
func NewPostgresStoreFromDB(db *sqlx.DB, timeout time.Duration) *PostgresStore {
	return &PostgresStore{db: db, timeout: timeout}
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// DB returns the underlying pool, for migrations.
func (s *PostgresStore) DB() *sqlx.DB {
	return s.db
}

// Ping checks connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()
	return wrap(ctx, "ping", s.db.PingContext(ctx))
}

// --- Projects ---

const projectColumns = `id, user_id, name, description, created_at`

// FirstProjectByOwner returns the owner's oldest project.
func (s *PostgresStore) FirstProjectByOwner(ctx context.Context, ownerID string) (*domain.Project, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	var p domain.Project
	err := s.db.GetContext(ctx, &p,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at, id LIMIT 1`, ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrProjectNotFound
	}
	if err != nil {
		return nil, wrap(ctx, "first project", err)
	}
	return &p, nil
}

// CreateProject inserts a project and returns the stored row.
func (s *PostgresStore) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	id := p.ID
	if id == "" {
		id = uuid.NewString()
	}

	var out domain.Project
	err := s.db.GetContext(ctx, &out,
		`INSERT INTO projects (id, user_id, name, description)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+projectColumns,
		id, p.UserID, p.Name, p.Description,
	)
	if err != nil {
		return nil, wrap(ctx, "create project", err)
	}
	return &out, nil
}

// ListProjectsByOwner returns all projects of an owner, oldest first.
func (s *PostgresStore) ListProjectsByOwner(ctx context.Context, ownerID string) ([]domain.Project, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	projects := []domain.Project{}
	err := s.db.SelectContext(ctx, &projects,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = $1 ORDER BY created_at, id`, ownerID)
	if err != nil {
		return nil, wrap(ctx, "list projects", err)
	}
	return projects, nil
}

// --- Files ---

const fileColumns = `f.id, f.project_id, f.folder_id, f.filename, f.file_type, f.content, f.uploaded_at, f.updated_at`

// FindFileByOwner looks a file up by exact name across the owner's projects.
func (s *PostgresStore) FindFileByOwner(ctx context.Context, ownerID, filename string) (*domain.File, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	var f domain.File
	err := s.db.GetContext(ctx, &f,
		`SELECT `+fileColumns+`
		 FROM files f JOIN projects p ON p.id = f.project_id
		 WHERE p.user_id = $1 AND f.filename = $2
		 ORDER BY f.uploaded_at, f.id LIMIT 1`,
		ownerID, filename,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrFileNotFound
	}
	if err != nil {
		return nil, wrap(ctx, "find file", err)
	}
	return &f, nil
}

// FindFileInProject looks a file up by exact name within one project.
func (s *PostgresStore) FindFileInProject(ctx context.Context, projectID, filename string) (*domain.File, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	var f domain.File
	err := s.db.GetContext(ctx, &f,
		`SELECT `+fileColumns+` FROM files f
		 WHERE f.project_id = $1 AND f.filename = $2
		 ORDER BY f.uploaded_at, f.id LIMIT 1`,
		projectID, filename,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrFileNotFound
	}
	if err != nil {
		return nil, wrap(ctx, "find file in project", err)
	}
	return &f, nil
}

// CreateFile inserts a file and returns the stored row.
func (s *PostgresStore) CreateFile(ctx context.Context, f *domain.File) (*domain.File, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	id := f.ID
	if id == "" {
		id = uuid.NewString()
	}

	var out domain.File
	err := s.db.GetContext(ctx, &out,
		`INSERT INTO files AS f (id, project_id, folder_id, filename, file_type, content)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+fileColumns,
		id, f.ProjectID, f.FolderID, f.Filename, f.FileType, f.Content,
	)
	if err != nil {
		return nil, wrap(ctx, "create file", err)
	}
	return &out, nil
}

// UpdateFileContent overwrites a file's content. With expected set, the
// row is locked and the write is refused if the content has changed.
func (s *PostgresStore) UpdateFileContent(ctx context.Context, fileID, content string, expected *string) error {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	if expected == nil {
		res, err := s.db.ExecContext(ctx,
			`UPDATE files SET content = $1, updated_at = NOW() WHERE id = $2`, content, fileID)
		if err != nil {
			return wrap(ctx, "update file", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return port.ErrFileNotFound
		}
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap(ctx, "begin tx", err)
	}
	defer tx.Rollback()

	var current string
	err = tx.GetContext(ctx, &current, `SELECT content FROM files WHERE id = $1 FOR UPDATE`, fileID)
	if errors.Is(err, sql.ErrNoRows) {
		return port.ErrFileNotFound
	}
	if err != nil {
		return wrap(ctx, "lock file", err)
	}
	if current != *expected {
		return port.ErrContentConflict
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE files SET content = $1, updated_at = NOW() WHERE id = $2`, content, fileID); err != nil {
		return wrap(ctx, "update file", err)
	}
	return wrap(ctx, "commit", tx.Commit())
}

// ListFilesByOwner returns every file in the owner's projects.
func (s *PostgresStore) ListFilesByOwner(ctx context.Context, ownerID string) ([]domain.File, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	files := []domain.File{}
	err := s.db.SelectContext(ctx, &files,
		`SELECT `+fileColumns+`
		 FROM files f JOIN projects p ON p.id = f.project_id
		 WHERE p.user_id = $1
		 ORDER BY f.uploaded_at, f.id`,
		ownerID,
	)
	if err != nil {
		return nil, wrap(ctx, "list files", err)
	}
	return files, nil
}

// --- Audit Logs ---

// WriteAudit implements middleware.AuditWriter.
func (s *PostgresStore) WriteAudit(ctx context.Context, l *domain.AuditLog) error {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	details := l.Details
	if details == "" {
		details = "{}"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO audit_logs (user_id, action, resource, resource_id, details, ip, user_agent)
		 VALUES ($1, $2, $3, $4, $5::jsonb, $6, $7)`,
		l.UserID, l.Action, l.Resource, l.ResourceID, details, l.IP, l.UserAgent,
	)
	return wrap(ctx, "write audit", err)
}

// ListAuditLogs returns recent audit logs, newest first. Empty filters match everything.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, userID, action string, limit int) ([]domain.AuditLog, error) {
	ctx, cancel := bound(ctx, s.timeout)
	defer cancel()

	query := `SELECT id, user_id, action, resource, resource_id, details::text AS details, ip, user_agent, created_at
	          FROM audit_logs WHERE 1 = 1`
	args := []interface{}{}

	if userID != "" {
		args = append(args, userID)
		query += fmt.Sprintf(" AND user_id = $%d", len(args))
	}
	if action != "" {
		args = append(args, action)
		query += fmt.Sprintf(" AND action = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	logs := []domain.AuditLog{}
	if err := s.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, wrap(ctx, "list audit logs", err)
	}
	return logs, nil
}

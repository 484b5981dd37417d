package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStoreFromDB(sqlx.NewDb(db, "sqlmock"), time.Second), mock
}

var (
	projectCols = []string{"id", "user_id", "name", "description", "created_at"}
	fileCols    = []string{"id", "project_id", "folder_id", "filename", "file_type", "content", "uploaded_at", "updated_at"}
)

func TestFirstProjectByOwner(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT .+ FROM projects WHERE user_id = \$1 ORDER BY created_at`).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(projectCols).AddRow("p1", "u1", "Default Project", "", now))

	p, err := s.FirstProjectByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Default Project", p.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFirstProjectByOwnerNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM projects`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(projectCols))

	_, err := s.FirstProjectByOwner(context.Background(), "ghost")
	assert.ErrorIs(t, err, port.ErrProjectNotFound)
}

func TestCreateProject(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO projects \(id, user_id, name, description\)`).
		WithArgs(sqlmock.AnyArg(), "u1", "Default Project", "auto").
		WillReturnRows(sqlmock.NewRows(projectCols).AddRow("p9", "u1", "Default Project", "auto", time.Now()))

	p, err := s.CreateProject(context.Background(), &domain.Project{UserID: "u1", Name: "Default Project", Description: "auto"})
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindFileByOwnerJoinsProjects(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`FROM files f JOIN projects p ON p.id = f.project_id\s+WHERE p.user_id = \$1 AND f.filename = \$2`).
		WithArgs("u1", "app.py").
		WillReturnRows(sqlmock.NewRows(fileCols).AddRow("f1", "p1", nil, "app.py", "python", "print(1)", now, now))

	f, err := s.FindFileByOwner(context.Background(), "u1", "app.py")
	require.NoError(t, err)
	assert.Equal(t, "print(1)", f.Content)
	assert.Nil(t, f.FolderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindFileInProjectNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM files f\s+WHERE f.project_id = \$1 AND f.filename = \$2`).
		WithArgs("p1", "nope.py").
		WillReturnRows(sqlmock.NewRows(fileCols))

	_, err := s.FindFileInProject(context.Background(), "p1", "nope.py")
	assert.ErrorIs(t, err, port.ErrFileNotFound)
}

func TestCreateFile(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO files AS f`).
		WithArgs(sqlmock.AnyArg(), "p1", nil, "foo.py", "python", "x = 1").
		WillReturnRows(sqlmock.NewRows(fileCols).AddRow("f2", "p1", nil, "foo.py", "python", "x = 1", now, now))

	f, err := s.CreateFile(context.Background(), &domain.File{ProjectID: "p1", Filename: "foo.py", FileType: "python", Content: "x = 1"})
	require.NoError(t, err)
	assert.Equal(t, "f2", f.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFileContentLastWriteWins(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE files SET content = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("b", "f1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdateFileContent(context.Background(), "f1", "b", nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFileContentMissingRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE files`).WithArgs("b", "gone").WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, s.UpdateFileContent(context.Background(), "gone", "b", nil), port.ErrFileNotFound)
}

func TestUpdateFileContentWithExpected(t *testing.T) {
	s, mock := newMockStore(t)
	expected := "a"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT content FROM files WHERE id = \$1 FOR UPDATE`).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"content"}).AddRow("a"))
	mock.ExpectExec(`UPDATE files SET content`).WithArgs("b", "f1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.UpdateFileContent(context.Background(), "f1", "b", &expected))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateFileContentConflict(t *testing.T) {
	s, mock := newMockStore(t)
	expected := "a"

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT content FROM files WHERE id = \$1 FOR UPDATE`).
		WithArgs("f1").
		WillReturnRows(sqlmock.NewRows([]string{"content"}).AddRow("someone else's edit"))
	mock.ExpectRollback()

	err := s.UpdateFileContent(context.Background(), "f1", "b", &expected)
	assert.ErrorIs(t, err, port.ErrContentConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListFilesByOwnerEmptyIsNotNil(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`FROM files f JOIN projects p`).WithArgs("u1").WillReturnRows(sqlmock.NewRows(fileCols))

	files, err := s.ListFilesByOwner(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestStoreErrorsAreWrapped(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM projects`).WillReturnError(errors.New("connection reset"))

	_, err := s.ListProjectsByOwner(context.Background(), "u1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list projects: connection reset")
}

func TestStoreDeadlineBecomesUpstreamTimeout(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT .+ FROM projects`).WillReturnError(context.DeadlineExceeded)

	_, err := s.ListProjectsByOwner(context.Background(), "u1")
	assert.ErrorIs(t, err, port.ErrUpstreamTimeout)
}

func TestWriteAndListAudit(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO audit_logs`).
		WithArgs("u1", "chat", "api", "/chat", "{}", "127.0.0.1", "curl").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, s.WriteAudit(context.Background(), &domain.AuditLog{
		UserID: "u1", Action: "chat", Resource: "api", ResourceID: "/chat", IP: "127.0.0.1", UserAgent: "curl",
	}))

	mock.ExpectQuery(`FROM audit_logs WHERE 1 = 1 AND user_id = \$1 AND action = \$2 ORDER BY created_at DESC LIMIT \$3`).
		WithArgs("u1", "chat", 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "action", "resource", "resource_id", "details", "ip", "user_agent", "created_at"}).
			AddRow("a1", "u1", "chat", "api", "/chat", "{}", "127.0.0.1", "curl", time.Now()))

	logs, err := s.ListAuditLogs(context.Background(), "u1", "chat", 5)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "/chat", logs[0].ResourceID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

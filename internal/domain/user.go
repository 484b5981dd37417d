package domain

import "time"

// User is the relational owner record. IDs come from the identity provider.
type User struct {
	ID        string    `json:"id"         db:"id"`
	Username  string    `json:"username"   db:"username"`
	Email     string    `json:"email"      db:"email"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Project groups an owner's folders and files. Deleting a project
// cascades to its folders and files.
type Project struct {
	ID          string    `json:"id"          db:"id"`
	UserID      string    `json:"user_id"     db:"user_id"`
	Name        string    `json:"name"        db:"name"`
	Description string    `json:"description" db:"description"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
}

// DefaultProjectName is used when an owner applies a file before creating any project.
const DefaultProjectName = "Default Project"

// Folder is a directory node inside a project.
type Folder struct {
	ID        string    `json:"id"         db:"id"`
	ProjectID string    `json:"project_id" db:"project_id"`
	ParentID  *string   `json:"parent_id"  db:"parent_id"`
	Name      string    `json:"name"       db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// File is a persisted source file.
type File struct {
	ID         string    `json:"id"          db:"id"`
	ProjectID  string    `json:"project_id"  db:"project_id"`
	FolderID   *string   `json:"folder_id"   db:"folder_id"`
	Filename   string    `json:"filename"    db:"filename"`
	FileType   string    `json:"file_type"   db:"file_type"`
	Content    string    `json:"content"     db:"content"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
	UpdatedAt  time.Time `json:"updated_at"  db:"updated_at"`
}

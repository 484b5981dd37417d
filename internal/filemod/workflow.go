// Package filemod implements the two-phase file modification workflow:
// propose generated content to the caller, then apply it on confirmation.
// The server keeps nothing between the two calls.
package filemod

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// PreviewLength is how many characters of proposed content the reply text shows.
const PreviewLength = 300

// CancelledMessage is returned by Apply when the caller did not confirm.
const CancelledMessage = "cancelled"

// Indexer embeds and stores a snippet for an owner.
type Indexer interface {
	AddSnippet(ctx context.Context, ownerID, label, code string) error
}

// Workflow drives FILENAME_RESOLUTION → CONTENT_GENERATION → PROPOSED,
// and later PROPOSED → APPLIED or CANCELLED.
type Workflow struct {
	model   port.Generator
	files   port.FileStore
	indexer Indexer
}

// NewWorkflow creates a file modification workflow.
func NewWorkflow(model port.Generator, files port.FileStore, indexer Indexer) *Workflow {
	return &Workflow{model: model, files: files, indexer: indexer}
}

// Propose resolves the target file, generates its new content and returns
// the proposal without touching storage. contextText is the owner's
// repository summary.
func (w *Workflow) Propose(ctx context.Context, ownerID, message, contextText string) (*domain.ChatResponse, error) {
	filename, err := ResolveFilename(ctx, w.model, message)
	if err != nil {
		return nil, err
	}

	isNew := IsNewFile(message)
	var previous *string
	if !isNew {
		f, err := w.priorFile(ctx, ownerID, filename)
		switch {
		case err == nil:
			previous = &f.Content
		case errors.Is(err, port.ErrFileNotFound):
			// treated as empty content
		default:
			return nil, fmt.Errorf("lookup %s: %w", filename, err)
		}
	}

	raw, err := w.model.Generate(ctx, buildPrompt(filename, message, contextText, isNew, deref(previous)))
	if err != nil {
		return nil, fmt.Errorf("generate file content: %w", err)
	}
	out := ParseModelOutput(raw)

	proposal := &domain.FileModificationProposal{
		Filename:        filename,
		Content:         CleanContent(out.Content),
		IsNewFile:       isNew,
		PreviousContent: previous,
		Explanation:     out.Explanation,
		Changes:         out.Changes,
	}

	slog.Info("file modification proposed",
		"user_id", ownerID,
		"filename", filename,
		"is_new_file", isNew,
		"content_len", len(proposal.Content),
	)

	return &domain.ChatResponse{
		Text:     proposalText(proposal),
		FileData: proposal,
	}, nil
}

// Apply persists a confirmed proposal. Without confirmation nothing is written.
func (w *Workflow) Apply(ctx context.Context, ownerID string, p domain.FileModificationProposal, confirmed bool) (*domain.ApplyResult, error) {
	if !confirmed {
		slog.Info("file modification cancelled", "user_id", ownerID, "filename", p.Filename)
		return &domain.ApplyResult{Message: CancelledMessage, Filename: p.Filename, Cancelled: true}, nil
	}
	if strings.TrimSpace(p.Filename) == "" {
		return nil, port.ErrFilenameUnresolved
	}

	content := CleanContent(p.Content)

	project, err := w.ownerProject(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	existing, err := w.files.FindFileInProject(ctx, project.ID, p.Filename)
	switch {
	case err == nil:
		if err := w.files.UpdateFileContent(ctx, existing.ID, content, p.PreviousContent); err != nil {
			return nil, fmt.Errorf("update %s: %w", p.Filename, err)
		}
	case errors.Is(err, port.ErrFileNotFound):
		if _, err := w.files.CreateFile(ctx, &domain.File{
			ProjectID: project.ID,
			Filename:  p.Filename,
			FileType:  DetectFileType(p.Filename),
			Content:   content,
		}); err != nil {
			return nil, fmt.Errorf("create %s: %w", p.Filename, err)
		}
	default:
		return nil, fmt.Errorf("lookup %s: %w", p.Filename, err)
	}

	// Only brand-new files are indexed. The vector store may drift from
	// the file table for modified files.
	if p.IsNewFile {
		if err := w.indexer.AddSnippet(ctx, ownerID, p.Filename, content); err != nil {
			return nil, fmt.Errorf("index %s: %w", p.Filename, err)
		}
	}

	msg := "File updated successfully"
	if existing == nil {
		msg = "File created successfully"
	}
	slog.Info("file modification applied", "user_id", ownerID, "filename", p.Filename, "created", existing == nil)

	return &domain.ApplyResult{
		Message:         msg,
		Filename:        p.Filename,
		DatabaseUpdated: true,
		Content:         content,
	}, nil
}

// priorFile finds the file Apply will write to: the one in the owner's first
// project, else the oldest with that name in any of the owner's projects.
func (w *Workflow) priorFile(ctx context.Context, ownerID, filename string) (*domain.File, error) {
	project, err := w.files.FirstProjectByOwner(ctx, ownerID)
	switch {
	case err == nil:
		f, err := w.files.FindFileInProject(ctx, project.ID, filename)
		if !errors.Is(err, port.ErrFileNotFound) {
			return f, err
		}
	case errors.Is(err, port.ErrProjectNotFound):
		return nil, port.ErrFileNotFound
	default:
		return nil, err
	}
	return w.files.FindFileByOwner(ctx, ownerID, filename)
}

// ownerProject returns the owner's first project, creating the default one if needed.
func (w *Workflow) ownerProject(ctx context.Context, ownerID string) (*domain.Project, error) {
	project, err := w.files.FirstProjectByOwner(ctx, ownerID)
	if err == nil {
		return project, nil
	}
	if !errors.Is(err, port.ErrProjectNotFound) {
		return nil, fmt.Errorf("lookup project: %w", err)
	}

	project, err = w.files.CreateProject(ctx, &domain.Project{
		UserID:      ownerID,
		Name:        domain.DefaultProjectName,
		Description: "Created automatically for applied file modifications",
	})
	if err != nil {
		return nil, fmt.Errorf("create default project: %w", err)
	}
	return project, nil
}

func buildPrompt(filename, message, contextText string, isNew bool, previous string) string {
	var b strings.Builder
	if isNew {
		fmt.Fprintf(&b, "You are creating a new file named %s for the user's project.\n\n", filename)
	} else {
		fmt.Fprintf(&b, "You are modifying the file %s in the user's project.\n\n", filename)
	}
	b.WriteString("### Repository Summary:\n")
	b.WriteString(contextText)
	b.WriteString("\n\n### User Request:\n")
	b.WriteString(message)
	b.WriteString("\n\n")
	if !isNew {
		b.WriteString("### Current Content:\n")
		b.WriteString(previous)
		b.WriteString("\n\n")
	}

	b.WriteString("### Output Format:\n")
	b.WriteString("Write the complete file between these markers, with no markdown code fences inside them:\n")
	b.WriteString(ContentStart + "\n<file content>\n" + ContentEnd + "\n")
	b.WriteString("Then a short explanation of what the file does:\n")
	b.WriteString(ExplanationStart + "\n<explanation>\n" + ExplanationEnd + "\n")
	if !isNew {
		b.WriteString("Then a bullet list of the changes you made:\n")
		b.WriteString(ChangesStart + "\n<changes>\n" + ChangesEnd + "\n")
	}
	return b.String()
}

func proposalText(p *domain.FileModificationProposal) string {
	var b strings.Builder
	if p.IsNewFile {
		fmt.Fprintf(&b, "I will create a new file `%s`.\n\n", p.Filename)
	} else {
		fmt.Fprintf(&b, "I will modify `%s`.\n\n", p.Filename)
	}
	if p.Explanation != "" {
		b.WriteString(p.Explanation)
		b.WriteString("\n\n")
	}
	if p.Changes != "" {
		b.WriteString("Changes:\n")
		b.WriteString(p.Changes)
		b.WriteString("\n\n")
	}
	b.WriteString("Preview:\n")
	b.WriteString(Preview(p.Content, PreviewLength))
	b.WriteString("\n\nConfirm to apply this change.")
	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

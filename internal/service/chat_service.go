package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arturoeanton/codeoh-assistant/internal/classifier"
	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/filemod"
	"github.com/arturoeanton/codeoh-assistant/internal/generator"
	"github.com/arturoeanton/codeoh-assistant/internal/retrieval"
)

// ChatService sequences classify → build context → generate for one message,
// and applies confirmed file modifications.
type ChatService struct {
	builder  *retrieval.Builder
	engine   *generator.Engine
	workflow *filemod.Workflow
}

// NewChatService creates the chat orchestrator.
func NewChatService(builder *retrieval.Builder, engine *generator.Engine, workflow *filemod.Workflow) *ChatService {
	return &ChatService{builder: builder, engine: engine, workflow: workflow}
}

// Chat answers one message for ownerID.
func (s *ChatService) Chat(ctx context.Context, ownerID, message string) (*domain.ChatReply, error) {
	start := time.Now()
	intent := classifier.Classify(message)
	slog.Info("chat", "user_id", ownerID, "query_type", intent)

	contextText, err := s.builder.Build(ctx, intent, ownerID, message)
	if err != nil {
		return nil, fmt.Errorf("build context: %w", err)
	}

	reply := &domain.ChatReply{QueryType: intent}

	if intent == domain.IntentFileModification {
		resp, err := s.workflow.Propose(ctx, ownerID, message, contextText)
		if err != nil {
			return nil, fmt.Errorf("propose file modification: %w", err)
		}
		reply.Response = *resp
	} else {
		resp, err := s.engine.Generate(ctx, intent, generator.Request{Context: contextText, Message: message})
		if err != nil {
			return nil, err
		}
		reply.Response = domain.ChatResponse{Text: resp.Text}
	}

	slog.Debug("chat answered", "user_id", ownerID, "query_type", intent, "duration_ms", time.Since(start).Milliseconds())
	return reply, nil
}

// ApplyFileModification persists a proposal the caller confirmed.
func (s *ChatService) ApplyFileModification(ctx context.Context, ownerID string, p domain.FileModificationProposal, confirmed bool) (*domain.ApplyResult, error) {
	return s.workflow.Apply(ctx, ownerID, p, confirmed)
}

// SearchCode returns the owner's snippets matching query at the search threshold.
func (s *ChatService) SearchCode(ctx context.Context, ownerID, query string) ([]domain.SimilarSnippet, error) {
	return s.builder.Search(ctx, ownerID, query, s.builder.Threshold(domain.IntentCodeSearch))
}

// RepositorySummary renders the owner's repository summary.
func (s *ChatService) RepositorySummary(ctx context.Context, ownerID string) (string, error) {
	return s.builder.Summary(ctx, ownerID)
}

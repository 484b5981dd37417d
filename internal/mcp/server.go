package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/service"
	"github.com/arturoeanton/codeoh-assistant/internal/validation"
)

// AuditWriter records tool calls. May be nil.
type AuditWriter interface {
	WriteAudit(ctx context.Context, l *domain.AuditLog) error
}

// Server implements the Model Context Protocol (MCP) server.
// It exposes the assistant's chat, search and indexing to external agents.
type Server struct {
	chat     *service.ChatService
	index    *service.IndexService
	audit    AuditWriter
	validate *validation.Validator
	port     string
}

// NewServer creates a new MCP server.
func NewServer(chat *service.ChatService, index *service.IndexService, audit AuditWriter, port string) *Server {
	return &Server{
		chat:     chat,
		index:    index,
		audit:    audit,
		validate: validation.New(),
		port:     port,
	}
}

// Tool represents an MCP tool definition.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/mcp", s.handleRPC)
	mux.HandleFunc("/mcp/sse", s.handleSSE)
	return mux
}

// Start serves on the configured port until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("MCP server starting", "port", s.port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req JSONRPCRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, nil, -32700, "parse error")
		return
	}

	var result interface{}
	var err error

	switch req.Method {
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, err = s.callTool(r.Context(), req.Params)
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"serverInfo": map[string]string{
				"name":    "codeoh-assistant",
				"version": "1.0.0",
			},
			"capabilities": map[string]interface{}{
				"tools": map[string]bool{"listChanged": false},
			},
		}
	default:
		writeError(w, req.ID, -32601, "method not found")
		return
	}

	if err != nil {
		writeError(w, req.ID, -32603, err.Error())
		return
	}

	writeResult(w, req.ID, result)
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Send initial endpoint message
	fmt.Fprintf(w, "event: endpoint\ndata: /mcp\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	// Keep connection alive
	<-r.Context().Done()
}

func (s *Server) listTools() map[string]interface{} {
	tools := []Tool{
		{
			Name:        "chat",
			Description: "Ask the assistant about the user's indexed code. File changes come back as a proposal",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"user_id": {"type": "string", "description": "Owner of the indexed code"},
					"message": {"type": "string", "description": "Question or instruction"}
				},
				"required": ["user_id", "message"]
			}`),
		},
		{
			Name:        "search_code",
			Description: "Find the user's indexed snippets by semantic similarity",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"user_id": {"type": "string", "description": "Owner of the indexed code"},
					"query": {"type": "string", "description": "Search query"}
				},
				"required": ["user_id", "query"]
			}`),
		},
		{
			Name:        "add_snippet",
			Description: "Index a code snippet for the user",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"user_id": {"type": "string", "description": "Owner of the snippet"},
					"file_name": {"type": "string", "description": "Label, usually the file path"},
					"code_snippet": {"type": "string", "description": "Source text"}
				},
				"required": ["user_id", "file_name", "code_snippet"]
			}`),
		},
		{
			Name:        "repository_summary",
			Description: "Summarize what the user has indexed, by file type",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"user_id": {"type": "string", "description": "Owner of the indexed code"}
				},
				"required": ["user_id"]
			}`),
		},
	}
	return map[string]interface{}{"tools": tools}
}

type chatArgs struct {
	UserID  string `json:"user_id" validate:"required,notblank"`
	Message string `json:"message" validate:"required,notblank"`
}

type searchArgs struct {
	UserID string `json:"user_id" validate:"required,notblank"`
	Query  string `json:"query"   validate:"required,notblank"`
}

type addSnippetArgs struct {
	UserID      string `json:"user_id"      validate:"required,notblank"`
	FileName    string `json:"file_name"    validate:"required,notblank"`
	CodeSnippet string `json:"code_snippet" validate:"required,notblank"`
}

type summaryArgs struct {
	UserID string `json:"user_id" validate:"required,notblank"`
}

// decodeArgs unmarshals tool arguments into out and validates them the same
// way the HTTP handlers validate request bodies.
func (s *Server) decodeArgs(raw json.RawMessage, out any) error {
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("invalid arguments: %w", err)
		}
	}
	if err := s.validate.Validate(out); err != nil {
		if msg, ok := validation.Message(err); ok {
			return errors.New(msg)
		}
		return err
	}
	return nil
}

func textContent(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
	}
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var req struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(params, &req); err != nil {
		return nil, fmt.Errorf("invalid params: %w", err)
	}

	var caller struct {
		UserID string `json:"user_id"`
	}
	_ = json.Unmarshal(req.Arguments, &caller)
	s.record(ctx, req.Name, caller.UserID)

	switch req.Name {
	case "chat":
		var args chatArgs
		if err := s.decodeArgs(req.Arguments, &args); err != nil {
			return nil, err
		}
		reply, err := s.chat.Chat(ctx, args.UserID, args.Message)
		if err != nil {
			return nil, err
		}
		out := textContent(reply.Response.Text)
		out["query_type"] = reply.QueryType
		if reply.Response.FileData != nil {
			out["file_data"] = reply.Response.FileData
		}
		return out, nil

	case "search_code":
		var args searchArgs
		if err := s.decodeArgs(req.Arguments, &args); err != nil {
			return nil, err
		}
		hits, err := s.chat.SearchCode(ctx, args.UserID, args.Query)
		if err != nil {
			return nil, err
		}
		var b strings.Builder
		for i, h := range hits {
			if i > 0 {
				b.WriteString("\n\n")
			}
			fmt.Fprintf(&b, "%s (%.2f)\n%s", h.Label, h.Similarity, h.Text)
		}
		out := textContent(b.String())
		out["sources"] = hits
		return out, nil

	case "add_snippet":
		var args addSnippetArgs
		if err := s.decodeArgs(req.Arguments, &args); err != nil {
			return nil, err
		}
		if err := s.index.AddSnippet(ctx, args.UserID, args.FileName, args.CodeSnippet); err != nil {
			return nil, err
		}
		return textContent("Indexed " + args.FileName), nil

	case "repository_summary":
		var args summaryArgs
		if err := s.decodeArgs(req.Arguments, &args); err != nil {
			return nil, err
		}
		summary, err := s.chat.RepositorySummary(ctx, args.UserID)
		if err != nil {
			return nil, err
		}
		return textContent(summary), nil

	default:
		return nil, fmt.Errorf("unknown tool: %s", req.Name)
	}
}

func (s *Server) record(ctx context.Context, tool, userID string) {
	if s.audit == nil {
		return
	}
	if userID == "" {
		userID = domain.AuditAnonymousUser
	}
	details, _ := json.Marshal(map[string]string{"tool": tool})
	entry := &domain.AuditLog{
		UserID:     userID,
		Action:     domain.AuditActionMCPCall,
		Resource:   "mcp",
		ResourceID: tool,
		Details:    string(details),
	}
	if err := s.audit.WriteAudit(context.WithoutCancel(ctx), entry); err != nil {
		slog.Error("failed to write audit log", "error", err)
	}
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, id interface{}, code int, message string) {
	resp := JSONRPCResponse{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

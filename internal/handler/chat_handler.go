package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/middleware"
	"github.com/arturoeanton/codeoh-assistant/internal/service"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	UserMessage string `json:"user_message" validate:"required,notblank"`
	UserID      string `json:"user_id"      validate:"required,notblank"`
}

// ApplyRequest is the body of POST /apply_file_modification.
// user_id and file_data.filename are required only when confirmed.
type ApplyRequest struct {
	FileData  domain.FileModificationProposal `json:"file_data"`
	UserID    string                          `json:"user_id"`
	Confirmed bool                            `json:"confirmed"`
}

// ChatHandler serves the conversational endpoints.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Register sets up chat routes.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/chat", h.Chat)
	router.Post("/apply_file_modification", h.Apply)
}

// Chat classifies the message and answers it. File modification
// requests come back as a proposal in response.file_data.
func (h *ChatHandler) Chat(c fiber.Ctx) error {
	var req ChatRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	middleware.SetOwner(c, req.UserID)
	middleware.SetAction(c, domain.AuditActionChat)

	reply, err := h.chat.Chat(c.Context(), req.UserID, req.UserMessage)
	if err != nil {
		return errorResponse(c, "chat", err)
	}
	return c.JSON(reply)
}

// Apply persists a proposal previously returned by Chat.
func (h *ChatHandler) Apply(c fiber.Ctx) error {
	var req ApplyRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	middleware.SetOwner(c, req.UserID)
	middleware.SetAction(c, domain.AuditActionApplyFile)

	res, err := h.chat.ApplyFileModification(c.Context(), req.UserID, req.FileData, req.Confirmed)
	if err != nil {
		return errorResponse(c, "apply file modification", err)
	}
	if res.Cancelled {
		return c.JSON(fiber.Map{"message": res.Message})
	}
	return c.JSON(res)
}

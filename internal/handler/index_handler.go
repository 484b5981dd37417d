package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/middleware"
	"github.com/arturoeanton/codeoh-assistant/internal/service"
)

// AddToDBRequest is the body of POST /addToDB.
type AddToDBRequest struct {
	FileName    string `json:"file_name"    validate:"required,notblank"`
	CodeSnippet string `json:"code_snippet" validate:"required,notblank"`
	UserID      string `json:"user_id"      validate:"required,notblank"`
}

// IndexHandler serves snippet ingestion.
type IndexHandler struct {
	index *service.IndexService
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(index *service.IndexService) *IndexHandler {
	return &IndexHandler{index: index}
}

// Register sets up indexing routes.
func (h *IndexHandler) Register(router fiber.Router) {
	router.Post("/addToDB", h.AddToDB)
}

// AddToDB embeds a snippet and stores it for the user.
func (h *IndexHandler) AddToDB(c fiber.Ctx) error {
	var req AddToDBRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	middleware.SetOwner(c, req.UserID)
	middleware.SetAction(c, domain.AuditActionAddToDB)

	if err := h.index.AddSnippet(c.Context(), req.UserID, req.FileName, req.CodeSnippet); err != nil {
		return errorResponse(c, "add snippet", err)
	}
	return c.JSON(fiber.Map{
		"message":   "Code snippet added successfully",
		"file_name": req.FileName,
	})
}

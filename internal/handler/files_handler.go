package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/codeoh-assistant/internal/middleware"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// FilesHandler exposes the owner's stored projects and files.
type FilesHandler struct {
	files port.FileStore
}

// NewFilesHandler creates a new files handler.
func NewFilesHandler(files port.FileStore) *FilesHandler {
	return &FilesHandler{files: files}
}

// Register sets up file routes.
func (h *FilesHandler) Register(router fiber.Router) {
	router.Get("/files", h.ListFiles)
	router.Get("/projects", h.ListProjects)
}

// ListFiles returns every file in the owner's projects.
func (h *FilesHandler) ListFiles(c fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.JSON(fiber.Map{"error": "user_id is required"})
	}
	middleware.SetOwner(c, userID)

	files, err := h.files.ListFilesByOwner(c.Context(), userID)
	if err != nil {
		return errorResponse(c, "list files", err)
	}
	return c.JSON(fiber.Map{
		"files": files,
		"count": len(files),
	})
}

// ListProjects returns the owner's projects.
func (h *FilesHandler) ListProjects(c fiber.Ctx) error {
	userID := c.Query("user_id")
	if userID == "" {
		return c.JSON(fiber.Map{"error": "user_id is required"})
	}
	middleware.SetOwner(c, userID)

	projects, err := h.files.ListProjectsByOwner(c.Context(), userID)
	if err != nil {
		return errorResponse(c, "list projects", err)
	}
	return c.JSON(fiber.Map{
		"projects": projects,
		"count":    len(projects),
	})
}

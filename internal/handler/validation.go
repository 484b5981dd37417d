package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/arturoeanton/codeoh-assistant/internal/validation"
)

// NewStructValidator creates the validator used by fiber.Config. A confirmed
// apply must name its owner and file; an unconfirmed one is cancelled
// whatever it carries.
func NewStructValidator() *validation.Validator {
	v := validation.New()
	v.RegisterStructValidation(validateApplyRequest, ApplyRequest{})
	return v
}

func validateApplyRequest(sl validator.StructLevel) {
	req := sl.Current().Interface().(ApplyRequest)
	if !req.Confirmed {
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		sl.ReportError(req.UserID, "user_id", "UserID", "required", "")
	}
	if strings.TrimSpace(req.FileData.Filename) == "" {
		sl.ReportError(req.FileData.Filename, "filename", "Filename", "required", "")
	}
}

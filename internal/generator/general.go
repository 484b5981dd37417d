package generator

import (
	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// NewGeneralGenerator answers questions about the project or programming at large.
func NewGeneralGenerator(model port.Generator) Generator {
	return &promptGenerator{
		intent:      domain.IntentGeneral,
		description: "Answer general questions about the project",
		role: "You are CodeOH, a helpful programming assistant. " +
			"Answer the user's question using the repository summary where it is relevant.",
		contextName: "Repository Summary",
		rules: []string{
			"Be concise and use Markdown.",
			"Ground statements about the project in the repository summary.",
		},
		model: model,
	}
}

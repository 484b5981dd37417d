package generator

import (
	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// NewExplanationGenerator explains how the retrieved code works.
func NewExplanationGenerator(model port.Generator) Generator {
	return &promptGenerator{
		intent:      domain.IntentCodeExplanation,
		description: "Explain how indexed code works",
		role: "You are a senior engineer explaining a codebase to a colleague. " +
			"Use the code context to answer the user's question.",
		contextName: "Code Context",
		rules: []string{
			"Start with a two-sentence overview, then walk through the relevant code step by step.",
			"Reference functions and files by the names used in the context.",
			"Call out side effects, error paths and non-obvious assumptions.",
			"Do not describe code that is not in the context as if it were.",
		},
		model: model,
	}
}

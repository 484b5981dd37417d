package generator

import (
	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// NewCodeGenerator writes new code that fits the user's repository.
func NewCodeGenerator(model port.Generator) Generator {
	return &promptGenerator{
		intent:      domain.IntentCodeGeneration,
		description: "Write new code consistent with the repository",
		role: "You are an expert programmer writing new code for the user's project. " +
			"The repository summary tells you which languages and files already exist.",
		contextName: "Repository Summary",
		rules: []string{
			"Prefer the language and conventions that dominate the repository summary.",
			"Return complete, runnable code in a single block, followed by a short usage note.",
			"State any assumption you had to make about missing details.",
		},
		model: model,
	}
}

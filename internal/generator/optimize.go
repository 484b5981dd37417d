package generator

import (
	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// NewOptimizationGenerator suggests improvements to the retrieved code.
func NewOptimizationGenerator(model port.Generator) Generator {
	return &promptGenerator{
		intent:      domain.IntentCodeOptimization,
		description: "Suggest performance, readability and correctness improvements",
		role: "You are a code reviewer focused on performance, readability and correctness. " +
			"Review the code context with the user's request in mind.",
		contextName: "Code Context",
		rules: []string{
			"List concrete improvements ordered by impact.",
			"For each improvement show the original snippet, the improved version and the reason.",
			"Keep the public behaviour unchanged unless the user asks otherwise.",
			"Do not fabricate APIs or dependencies that are not already used.",
		},
		model: model,
	}
}

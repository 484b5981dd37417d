package generator

import (
	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// NewTestGenerator writes unit tests for the retrieved code.
func NewTestGenerator(model port.Generator) Generator {
	return &promptGenerator{
		intent:      domain.IntentTestGeneration,
		description: "Write unit tests for indexed code",
		role: "You are a test engineer. Write unit tests for the code the user refers to, " +
			"using the code context to learn its signatures and behaviour.",
		contextName: "Code Context",
		rules: []string{
			"Use the testing framework idiomatic for the language of the code under test.",
			"Cover the happy path, edge cases and error paths, one behaviour per test.",
			"Name each test after the behaviour it checks.",
			"Only call functions and types that appear in the context.",
		},
		model: model,
	}
}

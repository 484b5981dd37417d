package generator

import (
	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// NewSearchGenerator returns the snippets in the context relevant to the query.
func NewSearchGenerator(model port.Generator) Generator {
	return &promptGenerator{
		intent:      domain.IntentCodeSearch,
		description: "Find indexed code relevant to a description",
		role: "You are assisting a developer inside a code editor. Given the following project context, " +
			"return all relevant code snippets related to the user's query in a concise, developer-friendly way.",
		contextName: "Context",
		rules: []string{
			"Return every relevant snippet found in the context, one snippet per block.",
			"Label each block with its source file exactly as given after \"File:\".",
			"Follow each snippet with a one-line explanation.",
			"Only quote code that appears in the context. Do not fabricate APIs.",
		},
		model: model,
	}
}

// Package generator holds one prompt-templated response generator per
// intent and an Engine that dispatches to them.
package generator

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
	"github.com/arturoeanton/codeoh-assistant/internal/retrieval"
)

// Request is what every generator receives.
type Request struct {
	Context string // retrieved snippets or repository summary
	Message string
}

// Response is the generated answer.
type Response struct {
	Text string
}

// Generator answers messages of one intent (Strategy Pattern).
type Generator interface {
	Intent() domain.QueryIntent
	Description() string
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Engine dispatches a request to the generator registered for its intent.
type Engine struct {
	generators map[domain.QueryIntent]Generator
}

// NewEngine creates an engine with the given generators. A later generator
// for the same intent replaces an earlier one.
func NewEngine(generators ...Generator) *Engine {
	m := make(map[domain.QueryIntent]Generator, len(generators))
	for _, g := range generators {
		m[g.Intent()] = g
	}
	return &Engine{generators: m}
}

// Default registers the built-in generator for every text intent.
func Default(model port.Generator) *Engine {
	return NewEngine(
		NewSearchGenerator(model),
		NewExplanationGenerator(model),
		NewOptimizationGenerator(model),
		NewCodeGenerator(model),
		NewTestGenerator(model),
		NewGeneralGenerator(model),
	)
}

// Generate runs the generator registered for intent.
func (e *Engine) Generate(ctx context.Context, intent domain.QueryIntent, req Request) (*Response, error) {
	g, ok := e.generators[intent]
	if !ok {
		return nil, fmt.Errorf("%s: %w", intent, port.ErrGeneratorNotFound)
	}
	return g.Generate(ctx, req)
}

// Intents returns the registered intents, sorted.
func (e *Engine) Intents() []domain.QueryIntent {
	out := make([]domain.QueryIntent, 0, len(e.generators))
	for in := range e.generators {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// promptGenerator fills a fixed template and sends it to the model.
type promptGenerator struct {
	intent      domain.QueryIntent
	description string
	role        string
	contextName string
	rules       []string
	model       port.Generator
}

func (g *promptGenerator) Intent() domain.QueryIntent { return g.intent }
func (g *promptGenerator) Description() string        { return g.description }

func (g *promptGenerator) Generate(ctx context.Context, req Request) (*Response, error) {
	text, err := g.model.Generate(ctx, g.Prompt(req))
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", g.intent, err)
	}
	return &Response{Text: strings.TrimSpace(text)}, nil
}

// Prompt renders the template for req.
func (g *promptGenerator) Prompt(req Request) string {
	var b strings.Builder
	b.WriteString(g.role)
	b.WriteString("\n\n### ")
	b.WriteString(g.contextName)
	b.WriteString(":\n")
	b.WriteString(req.Context)
	b.WriteString("\n\n### User Query:\n")
	b.WriteString(req.Message)
	b.WriteString("\n\n### Rules:\n")
	for _, r := range g.rules {
		b.WriteString("- ")
		b.WriteString(r)
		b.WriteString("\n")
	}
	if ungrounded(req.Context) {
		b.WriteString("- No indexed code matched this query. Answer from general knowledge, say so, and do not invent files, functions or code from the project.\n")
	}
	b.WriteString("\n### Response:\n")
	return b.String()
}

func ungrounded(contextText string) bool {
	return contextText == retrieval.NoRelevantCode || contextText == retrieval.NothingIndexed
}

// Package testutil provides in-memory fakes of the AI and storage ports for tests.
package testutil

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
	"unicode"
)

// FakeDimension is the vector length produced by FakeAI.
const FakeDimension = 256

// FakeAI embeds text as a normalized bag of hashed words, so texts sharing
// words are similar, and answers Generate from a script.
type FakeAI struct {
	mu sync.Mutex

	// Reply computes the answer to a prompt. When nil, Replies is consumed in
	// order and the last entry repeats.
	Reply   func(prompt string) (string, error)
	Replies []string

	EmbedErr    error
	GenerateErr error

	Prompts   []string
	Embeds    []string // queries
	Documents []string // stored snippets
}

// ModelName implements port.AIProvider.
func (f *FakeAI) ModelName() string { return "fake-model" }

// Embed implements port.Embedder.
func (f *FakeAI) Embed(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.Embeds = append(f.Embeds, text)
	err := f.EmbedErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return HashEmbed(text), nil
}

// EmbedDocument implements port.Embedder. It embeds like Embed but records
// the text in Documents.
func (f *FakeAI) EmbedDocument(ctx context.Context, text string) ([]float32, error) {
	f.mu.Lock()
	f.Documents = append(f.Documents, text)
	err := f.EmbedErr
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return HashEmbed(text), nil
}

// Generate implements port.Generator.
func (f *FakeAI) Generate(ctx context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Prompts = append(f.Prompts, prompt)
	if f.GenerateErr != nil {
		return "", f.GenerateErr
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Reply != nil {
		return f.Reply(prompt)
	}
	if len(f.Replies) == 0 {
		return "", nil
	}
	out := f.Replies[0]
	if len(f.Replies) > 1 {
		f.Replies = f.Replies[1:]
	}
	return out, nil
}

// LastPrompt returns the most recent Generate prompt.
func (f *FakeAI) LastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.Prompts) == 0 {
		return ""
	}
	return f.Prompts[len(f.Prompts)-1]
}

// HashEmbed is the deterministic embedding used by FakeAI.
func HashEmbed(text string) []float32 {
	v := make([]float32, FakeDimension)
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		v[h.Sum32()%FakeDimension]++
	}

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v
}

// Package classifier maps a free-text user message to a QueryIntent using an
// ordered list of keyword rules. The first rule that matches wins.
package classifier

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
)

// Input is a user message prepared for matching.
type Input struct {
	Raw string

	// padded is the lower-cased message with every run of non-alphanumeric
	// characters collapsed to one space, framed by spaces. Terms are
	// normalized the same way, so " term " containment is a word-boundary match.
	padded string
}

// NewInput normalizes text for rule evaluation.
func NewInput(text string) Input {
	return Input{Raw: text, padded: " " + normalize(text) + " "}
}

// Has reports whether any of terms occurs in the message as whole words.
func (in Input) Has(terms ...string) bool {
	for _, t := range terms {
		if n := normalize(t); n != "" && strings.Contains(in.padded, " "+n+" ") {
			return true
		}
	}
	return false
}

// Rule pairs an intent with the predicate that selects it.
type Rule struct {
	Intent domain.QueryIntent
	Match  func(Input) bool
}

var (
	fileVerbPhrases = []string{
		"modify file", "edit file", "update file", "change file",
		"modify the file", "edit the file", "update the file", "change the file",
		"create file", "make a file", "write to file", "save to file",
		"new file called", "new file named", "create a new file", "create a file",
		"make a new file",
	}
	fileNamedPhrases = []string{"file called", "file named"}
	fileCreateVerbs  = []string{"create", "make", "write", "implement", "new"}

	testTerms = []string{
		"test", "tests", "unit test", "unit tests", "test case", "test cases",
		"testing", "spec for", "specs for",
	}
	codeUnitNouns = []string{
		"function", "functions", "class", "classes", "method", "methods",
		"module", "component", "endpoint", "code", "file", "handler", "api",
	}

	generationTerms = []string{
		"create", "generate", "write", "implement", "make a", "code a", "build a",
		"develop", "new function", "new class", "new method", "function for",
		"how to code", "how to make", "how would you code", "could you write",
		"write me", "make me",
	}
	searchTerms = []string{
		"find", "search", "show me", "where is", "where are", "code for",
		"look for", "locate", "fetch", "which file", "which files",
	}
	explanationTerms = []string{
		"explain", "explanation", "how does", "how is", "understand", "describe",
		"clarify", "tell me about", "help me understand", "walk me through",
		"what is the purpose", "what does this code", "what does this function",
		"what does this method", "what does this class", "what does this file",
	}
	optimizationTerms = []string{
		"optimize", "optimise", "improve", "better way", "refactor", "performance",
		"efficient", "clean up", "enhance", "fix", "upgrade", "speed up",
		"suggestion", "suggestions", "best practice", "best practices",
		"how should i", "how can i",
	}
)

// defaultRules is evaluated in order. File intent dominates every other
// signal, so a marker next to creation verbs is still a file modification.
var defaultRules = []Rule{
	{domain.IntentFileModification, func(in Input) bool {
		if _, ok := ExtractFileMarker(in.Raw); ok {
			return true
		}
		return in.Has(fileVerbPhrases...) ||
			(in.Has(fileNamedPhrases...) && in.Has(fileCreateVerbs...))
	}},
	{domain.IntentTestGeneration, func(in Input) bool {
		return in.Has(testTerms...) && in.Has(codeUnitNouns...)
	}},
	{domain.IntentCodeGeneration, func(in Input) bool { return in.Has(generationTerms...) }},
	{domain.IntentCodeSearch, func(in Input) bool { return in.Has(searchTerms...) }},
	{domain.IntentCodeExplanation, func(in Input) bool { return in.Has(explanationTerms...) }},
	{domain.IntentCodeOptimization, func(in Input) bool { return in.Has(optimizationTerms...) }},
}

// Rules returns a copy of the default rule list in evaluation order.
func Rules() []Rule {
	out := make([]Rule, len(defaultRules))
	copy(out, defaultRules)
	return out
}

// Classify returns the intent of text. It never fails; a message no rule
// claims is general.
func Classify(text string) domain.QueryIntent {
	return ClassifyWith(defaultRules, text)
}

// ClassifyWith evaluates rules in order against text.
func ClassifyWith(rules []Rule, text string) domain.QueryIntent {
	in := NewInput(text)
	for _, r := range rules {
		if r.Match(in) {
			return r.Intent
		}
	}
	return domain.IntentGeneral
}

// markerRe finds "@name" where "@" is not glued to a word, so e-mail
// addresses do not count. Quotes, brackets and colons may precede it.
var markerRe = regexp.MustCompile(`(?:^|[^\w@.])@([\w./-]+)`)

// ExtractFileMarker returns the first "@name" target in text, with trailing
// punctuation and a leading "./" removed.
func ExtractFileMarker(text string) (string, bool) {
	for _, m := range markerRe.FindAllStringSubmatch(text, -1) {
		name := strings.TrimPrefix(TrimTrailingPunct(m[1]), "./")
		if strings.IndexFunc(name, isWordRune) >= 0 {
			return name, true
		}
	}
	return "", false
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// TrimTrailingPunct strips sentence punctuation glued to the end of a filename.
func TrimTrailingPunct(s string) string {
	return strings.TrimRight(s, ".,;:!?")
}

func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

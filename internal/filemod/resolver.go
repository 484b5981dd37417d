package filemod

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/arturoeanton/codeoh-assistant/internal/classifier"
	"github.com/arturoeanton/codeoh-assistant/internal/port"
)

// Extractor pulls a filename out of a message, if it can.
type Extractor struct {
	Name    string
	Extract func(text string) (string, bool)
}

const fileToken = "[\"'`]?([\\w./-]+)"

var (
	namedRe    = regexp.MustCompile(`(?i)\b(?:file|script|module|class|component)\s+(?:called|named)\s+` + fileToken)
	createRe   = regexp.MustCompile(`(?i)\b(?:create|make|write)\s+(?:a\s+)?(?:new\s+)?(?:file\s+)?["'` + "`" + `]?([\w./-]+\.[A-Za-z0-9]+)`)
	broadRe    = regexp.MustCompile(`(?i)\b(?:modify|edit|update|change|write\s+to|save\s+to|open)\s+(?:the\s+)?file\s+` + fileToken)
	bareNameRe = regexp.MustCompile(`^[\w][\w./-]*$`)
)

func regexExtractor(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		name := cleanName(m[1])
		return name, name != ""
	}
}

// Extractors returns the pattern extractors in the order they are tried.
// The model fallback is not included.
func Extractors() []Extractor {
	return []Extractor{
		{Name: "marker", Extract: classifier.ExtractFileMarker},
		{Name: "named", Extract: regexExtractor(namedRe)},
		{Name: "create", Extract: regexExtractor(createRe)},
		{Name: "broad", Extract: regexExtractor(broadRe)},
	}
}

// ExtractFilename runs the pattern extractors and returns the first match.
func ExtractFilename(text string) (string, bool) {
	for _, e := range Extractors() {
		if name, ok := e.Extract(text); ok {
			return name, true
		}
	}
	return "", false
}

// ResolveFilename tries the pattern extractors, then asks the model for a
// bare filename.
func ResolveFilename(ctx context.Context, model port.Generator, message string) (string, error) {
	if name, ok := ExtractFilename(message); ok {
		return name, nil
	}

	prompt := "Extract the name of the file the user wants to create or modify from the message below.\n" +
		"Reply with the bare filename only, for example utils.py. If there is none, reply NONE.\n\n" +
		"Message: " + message
	out, err := model.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("resolve filename: %w", err)
	}

	name := cleanName(firstLine(out))
	if name == "" || strings.EqualFold(name, "none") || !bareNameRe.MatchString(name) {
		return "", port.ErrFilenameUnresolved
	}
	return name, nil
}

func cleanName(s string) string {
	s = strings.Trim(strings.TrimSpace(s), "\"'`")
	return classifier.TrimTrailingPunct(s)
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// IsNewFile reports whether the message asks for a file to be created.
func IsNewFile(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "create") || strings.Contains(lower, "new file")
}

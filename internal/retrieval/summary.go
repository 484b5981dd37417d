package retrieval

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
)

const (
	samplesPerType = 5
	sampleCap      = 20
	noExtension    = "other"
)

// RepositorySummary aggregates an owner's indexed snippets. It is computed
// per request and never stored.
type RepositorySummary struct {
	// FilesByType maps an extension bucket to distinct labels in first-seen order.
	FilesByType map[string][]string
	Snippets    int
	Lines       int
}

// Summarize buckets records by extension and counts snippets and lines.
func Summarize(records []domain.CodeEmbeddingRecord) RepositorySummary {
	s := RepositorySummary{FilesByType: map[string][]string{}}
	seen := map[string]bool{}

	for _, r := range records {
		s.Snippets++
		s.Lines += lineCount(r.Text)

		if seen[r.Label] {
			continue
		}
		seen[r.Label] = true
		ext := Extension(r.Label)
		s.FilesByType[ext] = append(s.FilesByType[ext], r.Label)
	}
	return s
}

// Extension returns the lower-cased text after the last "." of the base
// name, or "other" when there is none.
func Extension(label string) string {
	base := path.Base(strings.ReplaceAll(label, "\\", "/"))
	i := strings.LastIndex(base, ".")
	if i < 0 || i == len(base)-1 {
		return noExtension
	}
	return strings.ToLower(base[i+1:])
}

func lineCount(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}

// Files returns the number of distinct labels.
func (s RepositorySummary) Files() int {
	n := 0
	for _, names := range s.FilesByType {
		n += len(names)
	}
	return n
}

// types returns buckets by descending file count, then name.
func (s RepositorySummary) types() []string {
	out := make([]string, 0, len(s.FilesByType))
	for ext := range s.FilesByType {
		out = append(out, ext)
	}
	sort.Slice(out, func(i, j int) bool {
		ni, nj := len(s.FilesByType[out[i]]), len(s.FilesByType[out[j]])
		if ni != nj {
			return ni > nj
		}
		return out[i] < out[j]
	})
	return out
}

// Render produces the markdown report, or NothingIndexed when empty.
func (s RepositorySummary) Render() string {
	if s.Snippets == 0 {
		return NothingIndexed
	}

	var b strings.Builder
	b.WriteString("# Repository Summary\n\n")

	b.WriteString("## File Types\n")
	types := s.types()
	for _, ext := range types {
		fmt.Fprintf(&b, "- %s: %d file(s)\n", ext, len(s.FilesByType[ext]))
	}

	b.WriteString("\n## Sample Files\n")
	listed := 0
	for _, ext := range types {
		names := s.FilesByType[ext]
		if len(names) > samplesPerType {
			names = names[:samplesPerType]
		}
		for _, name := range names {
			if listed == sampleCap {
				break
			}
			fmt.Fprintf(&b, "- %s\n", name)
			listed++
		}
	}
	if more := s.Files() - listed; more > 0 {
		fmt.Fprintf(&b, "- +%d more\n", more)
	}

	b.WriteString("\n## Statistics\n")
	fmt.Fprintf(&b, "- Files: %d\n", s.Files())
	fmt.Fprintf(&b, "- Snippets: %d\n", s.Snippets)
	fmt.Fprintf(&b, "- Lines of code: %d\n", s.Lines)

	return b.String()
}

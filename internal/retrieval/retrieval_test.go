package retrieval

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
	"github.com/arturoeanton/codeoh-assistant/internal/testutil"
)

func index(t *testing.T, vs *testutil.MemoryVectorStore, owner, label, text string) {
	t.Helper()
	require.NoError(t, vs.Insert(context.Background(), &domain.CodeEmbeddingRecord{
		OwnerID: owner, Label: label, Text: text, Vector: testutil.HashEmbed(text),
	}))
}

func TestFormatSnippets(t *testing.T) {
	assert.Equal(t, NoRelevantCode, FormatSnippets(nil))

	got := FormatSnippets([]domain.SimilarSnippet{
		{Label: "a.py", Text: "x = 1"},
		{Label: "b.go", Text: "package b"},
	})
	assert.Equal(t, "File: a.py\nCode: x = 1\n\nFile: b.go\nCode: package b", got)
}

func TestBuildRoutesByIntent(t *testing.T) {
	vs := testutil.NewMemoryVectorStore()
	index(t, vs, "u1", "auth.py", "def login user password")
	b := NewBuilder(&testutil.FakeAI{}, vs, Options{SearchThreshold: 0.2, ExplainThreshold: 0.1, MatchCount: 5})

	got, err := b.Build(context.Background(), domain.IntentCodeSearch, "u1", "login password")
	require.NoError(t, err)
	assert.Contains(t, got, "File: auth.py")

	got, err = b.Build(context.Background(), domain.IntentGeneral, "u1", "login password")
	require.NoError(t, err)
	assert.Contains(t, got, "## File Types")
}

func TestThresholdPerIntent(t *testing.T) {
	b := NewBuilder(&testutil.FakeAI{}, testutil.NewMemoryVectorStore(), DefaultOptions())

	assert.Equal(t, 0.5, b.Threshold(domain.IntentCodeSearch))
	for _, in := range []domain.QueryIntent{domain.IntentCodeExplanation, domain.IntentCodeOptimization, domain.IntentTestGeneration} {
		assert.Equal(t, 0.3, b.Threshold(in), in)
	}
	assert.True(t, UsesRetrieval(domain.IntentTestGeneration))
	assert.False(t, UsesRetrieval(domain.IntentFileModification))
	assert.False(t, UsesRetrieval(domain.IntentCodeGeneration))
}

func TestRetrieveIsOwnerScoped(t *testing.T) {
	vs := testutil.NewMemoryVectorStore()
	index(t, vs, "U", "auth.py", "def authenticate(token): return verify(token)")
	b := NewBuilder(&testutil.FakeAI{}, vs, Options{SearchThreshold: 0.2, ExplainThreshold: 0.1, MatchCount: 10})

	for _, owner := range []string{"U", "V", "", "u"} {
		got, err := b.Retrieve(context.Background(), owner, "authenticate token", 0.2)
		require.NoError(t, err)
		if owner == "U" {
			assert.Contains(t, got, "File: auth.py")
		} else {
			assert.Equal(t, NoRelevantCode, got, "owner %q must not see U's records", owner)
		}
	}
}

func TestRetrieveRespectsMatchCount(t *testing.T) {
	vs := testutil.NewMemoryVectorStore()
	for i := 0; i < 8; i++ {
		index(t, vs, "u1", fmt.Sprintf("f%d.go", i), "shared words here")
	}
	b := NewBuilder(&testutil.FakeAI{}, vs, Options{MatchCount: 3})

	hits, err := b.Search(context.Background(), "u1", "shared words", 0.1)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

func TestRetrievePropagatesEmbedError(t *testing.T) {
	b := NewBuilder(&testutil.FakeAI{EmbedErr: errors.New("model down")}, testutil.NewMemoryVectorStore(), DefaultOptions())

	_, err := b.Retrieve(context.Background(), "u1", "anything", 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model down")
}

func TestSummaryEmpty(t *testing.T) {
	b := NewBuilder(&testutil.FakeAI{}, testutil.NewMemoryVectorStore(), DefaultOptions())

	got, err := b.Summary(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, NothingIndexed, got)
}

func TestExtension(t *testing.T) {
	tests := map[string]string{
		"main.go":          "go",
		"App.TSX":          "tsx",
		"archive.tar.gz":   "gz",
		"Makefile":         "other",
		"trailing.":        "other",
		"src/v1.2/handler": "other",
		`dir\file.PY`:      "py",
	}
	for in, want := range tests {
		assert.Equal(t, want, Extension(in), in)
	}
}

func TestSummarize(t *testing.T) {
	records := []domain.CodeEmbeddingRecord{
		{Label: "a.py", Text: "one\ntwo"},
		{Label: "a.py", Text: "three"},
		{Label: "b.PY", Text: "x"},
		{Label: "Makefile", Text: ""},
		{Label: "c.go", Text: "package c\n\nfunc C() {}\n"},
	}
	s := Summarize(records)

	assert.Equal(t, 5, s.Snippets)
	assert.Equal(t, 2+1+1+0+4, s.Lines)
	assert.Equal(t, 4, s.Files())
	assert.Equal(t, []string{"a.py", "b.PY"}, s.FilesByType["py"])
	assert.Equal(t, []string{"Makefile"}, s.FilesByType["other"])

	out := s.Render()
	assert.Contains(t, out, "- py: 2 file(s)")
	assert.Contains(t, out, "- Snippets: 5")
	assert.Contains(t, out, "- Lines of code: 8")
	assert.NotContains(t, out, "more")
}

func TestRenderCapsSampleFiles(t *testing.T) {
	var records []domain.CodeEmbeddingRecord
	for _, ext := range []string{"go", "py", "ts", "js", "rs", "java"} {
		for i := 0; i < 7; i++ {
			records = append(records, domain.CodeEmbeddingRecord{Label: fmt.Sprintf("f%d.%s", i, ext), Text: "x"})
		}
	}
	out := Summarize(records).Render()

	sample := out[strings.Index(out, "## Sample Files"):strings.Index(out, "## Statistics")]
	assert.Equal(t, sampleCap+1, strings.Count(sample, "\n- "), "20 names plus the overflow line")
	assert.Contains(t, sample, "- +22 more")
	assert.Contains(t, out, "- Files: 42")
}

package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/arturoeanton/codeoh-assistant/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want domain.QueryIntent
	}{
		{"explain this function", domain.IntentCodeExplanation},
		{"find code for login", domain.IntentCodeSearch},
		{"optimize this loop", domain.IntentCodeOptimization},
		{"hello, what does this project do?", domain.IntentGeneral},
		{"Please edit file main.py to add logging", domain.IntentFileModification},
		{"create a new file called utils.py", domain.IntentFileModification},
		{`update "@main.py" to log`, domain.IntentFileModification},
		{"please fix (@main.py)", domain.IntentFileModification},
		{"look at @./src/app.py", domain.IntentFileModification},
		{"edit:@main.py", domain.IntentFileModification},
		{"write a unit test for the parse function", domain.IntentTestGeneration},
		{"generate a REST handler for users", domain.IntentCodeGeneration},
		{"where is the session token refreshed?", domain.IntentCodeSearch},
		{"Walk me through the retry logic", domain.IntentCodeExplanation},
		{"can you refactor the cache layer", domain.IntentCodeOptimization},
		{"", domain.IntentGeneral},
		{"thanks!", domain.IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text))
		})
	}
}

func TestClassifyFileMarkerDominates(t *testing.T) {
	others := []string{
		"", "explain", "find", "optimize", "create a function", "write tests for this class",
		"generate", "search for usages", "hello",
	}
	markers := []string{
		"@main.py", "@src/app/handler.go", "@README.md", "@a",
		`"@main.py"`, "(@main.py)", "edit:@main.py", "@./src/app.py", "[@.env]",
	}

	for _, m := range markers {
		for _, o := range others {
			for _, text := range []string{m + " " + o, o + " " + m, o + " in " + m + "."} {
				assert.Equal(t, domain.IntentFileModification, Classify(text), text)
			}
		}
	}
}

func TestClassifyWordBoundaries(t *testing.T) {
	// "testament" and "refixed" must not trigger the test or optimization rules.
	assert.Equal(t, domain.IntentGeneral, Classify("the old testament of refixed dates"))
	// an e-mail address is not a file marker
	assert.Equal(t, domain.IntentGeneral, Classify("mail me at dev@example.com"))
}

func TestClassifyTestNeedsCodeUnit(t *testing.T) {
	assert.Equal(t, domain.IntentTestGeneration, Classify("add tests for this handler"))
	// no code-unit noun, so it falls through to the generation rule
	assert.Equal(t, domain.IntentCodeGeneration, Classify("write tests"))
}

func TestClassifyWithCustomRules(t *testing.T) {
	rules := []Rule{
		{domain.IntentCodeSearch, func(in Input) bool { return in.Has("grep") }},
	}
	assert.Equal(t, domain.IntentCodeSearch, ClassifyWith(rules, "grep for TODO"))
	assert.Equal(t, domain.IntentGeneral, ClassifyWith(rules, "explain this"))
}

func TestRulesOrder(t *testing.T) {
	rules := Rules()
	got := make([]domain.QueryIntent, len(rules))
	for i, r := range rules {
		got[i] = r.Intent
	}
	assert.Equal(t, []domain.QueryIntent{
		domain.IntentFileModification,
		domain.IntentTestGeneration,
		domain.IntentCodeGeneration,
		domain.IntentCodeSearch,
		domain.IntentCodeExplanation,
		domain.IntentCodeOptimization,
	}, got)
}

func TestExtractFileMarker(t *testing.T) {
	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"update @main.py please", "main.py", true},
		{"@src/util/strings.go: add a helper", "src/util/strings.go", true},
		{"look at @config.yaml.", "config.yaml", true},
		{"two @a.py and @b.py", "a.py", true},
		{"dev@example.com", "", false},
		{"no marker here", "", false},
		{"a lone @ sign", "", false},
		{`update "@main.py" to log`, "main.py", true},
		{"please fix (@main.py)", "main.py", true},
		{"edit:@main.py", "main.py", true},
		{"look at @./src/app.py", "src/app.py", true},
		{"read @.env first", ".env", true},
		{"see @../lib/util.go", "../lib/util.go", true},
		{"only @./ here", "", false},
		{"mail dev@example.com about @cfg.toml", "cfg.toml", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := ExtractFileMarker(tt.text)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

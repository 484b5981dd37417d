package filemod

import "strings"

// CleanContent removes every markdown fence line. Trailing blank lines
// collapse to a single line ending; everything else is kept as written.
// CleanContent(CleanContent(s)) == CleanContent(s).
func CleanContent(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "```") {
			continue
		}
		kept = append(kept, l)
	}

	out := strings.Join(kept, "\n")
	if !strings.HasSuffix(out, "\n") {
		return out
	}
	eol := "\n"
	if strings.HasSuffix(out, "\r\n") {
		eol = "\r\n"
	}
	return strings.TrimRight(out, "\r\n") + eol
}

// Preview returns the first n runes of s, with an ellipsis when cut.
func Preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

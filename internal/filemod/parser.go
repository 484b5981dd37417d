package filemod

import "strings"

// Sentinel markers the model is asked to wrap each output field in.
const (
	ContentStart     = "---FILE_CONTENT---"
	ContentEnd       = "---END_FILE_CONTENT---"
	ExplanationStart = "---EXPLANATION---"
	ExplanationEnd   = "---END_EXPLANATION---"
	ChangesStart     = "---CHANGES---"
	ChangesEnd       = "---END_CHANGES---"
)

// ModelOutput is the structured form of a file generation reply. A field
// whose marker pair is missing is empty.
type ModelOutput struct {
	Content     string
	Explanation string
	Changes     string
}

// ParseModelOutput extracts each sentinel-delimited field from raw.
func ParseModelOutput(raw string) ModelOutput {
	return ModelOutput{
		Content:     strings.Trim(between(raw, ContentStart, ContentEnd), "\r\n"),
		Explanation: strings.TrimSpace(between(raw, ExplanationStart, ExplanationEnd)),
		Changes:     strings.TrimSpace(between(raw, ChangesStart, ChangesEnd)),
	}
}

func between(s, open, closeMarker string) string {
	i := strings.Index(s, open)
	if i < 0 {
		return ""
	}
	rest := s[i+len(open):]
	j := strings.Index(rest, closeMarker)
	if j < 0 {
		return ""
	}
	return rest[:j]
}

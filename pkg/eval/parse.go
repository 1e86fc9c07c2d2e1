package eval

import (
	"strconv"
	"strings"
)

// ParseClassification extracts structured triage fields from a
// free-form model response. Lines are matched on well-known prefixes
// ("Category:", "Tone:", "Formality:", "Confidence:", "Requires
// Response:"); anything unparseable keeps its default.
func ParseClassification(response string) Outputs {
	out := Outputs{
		Category:   "Unknown",
		Tone:       "unknown",
		Formality:  "unknown",
		Confidence: 0.5,
		Raw:        response,
	}

	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Category:"):
			out.Category = strings.TrimSpace(strings.TrimPrefix(line, "Category:"))
		case strings.HasPrefix(line, "Tone:"):
			out.Tone = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "Tone:")))
		case strings.HasPrefix(line, "Formality:"):
			out.Formality = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "Formality:")))
		case strings.HasPrefix(line, "Confidence:"):
			raw := strings.TrimSpace(strings.TrimPrefix(line, "Confidence:"))
			if v, err := strconv.ParseFloat(raw, 64); err == nil {
				out.Confidence = v
			}
		case strings.HasPrefix(line, "Requires Response:"):
			raw := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(line, "Requires Response:")))
			out.RequiresResponse = raw == "yes" || raw == "true"
		}
	}

	return out
}

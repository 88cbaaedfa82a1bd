package directions

import "strings"

// panelLabels are section headings that show up as step elements
var panelLabels = map[string]struct{}{
	"directions": {},
	"steps":      {},
}

// FilterStepTexts trims step texts and drops blanks and panel labels, keeping order
func FilterStepTexts(texts []string) []string {
	kept := make([]string, 0, len(texts))
	for _, raw := range texts {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if _, ok := panelLabels[strings.ToLower(text)]; ok {
			continue
		}
		kept = append(kept, text)
	}
	return kept
}

package service

import (
	"regexp"
	"strings"
)

var (
	markdownRe = regexp.MustCompile(`[#*_]`)
	numberRe   = regexp.MustCompile(`^\d+[.)]\s*`)
)

// ExtractRecipeName lifts a display name from a generated answer: the first
// line that, stripped of markdown decoration and list numbering, is between
// 4 and 59 characters. Falls back to "Saved Recipe".
func ExtractRecipeName(answer string) string {
	for _, line := range strings.Split(answer, "\n") {
		clean := strings.TrimSpace(markdownRe.ReplaceAllString(line, ""))
		clean = strings.TrimSpace(numberRe.ReplaceAllString(clean, ""))
		if len(clean) > 3 && len(clean) < 60 {
			return clean
		}
	}
	return "Saved Recipe"
}

var optionLineRe = regexp.MustCompile(`^\s*\d+[.)]\s+(.+)$`)

// offeredOptions parses the recipe titles out of an options-style answer:
// numbered lines, markdown stripped, any trailing description after a dash
// dropped.
func offeredOptions(answer string) []string {
	var options []string
	for _, line := range strings.Split(answer, "\n") {
		m := optionLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(markdownRe.ReplaceAllString(m[1], ""))
		for _, sep := range []string{" – ", " — ", " - ", ": "} {
			if idx := strings.Index(title, sep); idx > 0 {
				title = title[:idx]
				break
			}
		}
		title = strings.TrimSpace(title)
		if title != "" {
			options = append(options, title)
		}
	}
	return options
}

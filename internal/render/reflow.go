// Package render implements the document rendering stage: translated text is
// re-flowed into plain paragraphs and laid out onto a new paginated PDF.
package render

import "strings"

// SplitParagraphs splits translated text into paragraphs on blank-line
// boundaries. Within each paragraph the original line breaks are collapsed
// into single spaces (re-flow); candidates that are blank after trimming are
// dropped. An all-blank input yields no paragraphs.
func SplitParagraphs(text string) []string {
	candidates := strings.Split(text, "\n\n")

	paragraphs := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		flowed := strings.TrimSpace(strings.ReplaceAll(candidate, "\n", " "))
		if flowed == "" {
			continue
		}
		paragraphs = append(paragraphs, flowed)
	}

	return paragraphs
}

package annotate

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	markerPattern = regexp.MustCompile(`\[(\d+)\]`)
	stripPattern  = regexp.MustCompile(`[ \t]*\[\d+\]`)
)

// CitationMarkers returns the distinct 1-based "[n]" markers in content that
// refer to one of the available citations, in order of first appearance.
func CitationMarkers(content string, available int) []int {
	var out []int
	seen := map[int]bool{}
	for _, m := range markerPattern.FindAllStringSubmatch(content, -1) {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 || n > available || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// StripMarkers removes every "[n]" marker along with the blanks before it.
func StripMarkers(content string) string {
	return stripPattern.ReplaceAllString(content, "")
}

// CitedText returns the sentence that the first "[marker]" is attached to,
// with markers removed and surrounding list or emphasis markup trimmed. It
// falls back to the whole answer when the sentence cannot be isolated.
func CitedText(content string, marker int) string {
	fallback := strings.TrimSpace(StripMarkers(content))
	pos := strings.Index(content, "["+strconv.Itoa(marker)+"]")
	if pos < 0 {
		return fallback
	}

	text := strings.TrimRight(StripMarkers(content[:pos]), " \t.!?")
	cut := 0
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.LastIndex(text, sep); i >= 0 && i+len(sep) > cut {
			cut = i + len(sep)
		}
	}
	text = strings.TrimSpace(text[cut:])
	text = strings.TrimSpace(strings.Trim(text, "*_#->` "))
	if text == "" {
		return fallback
	}
	return text
}

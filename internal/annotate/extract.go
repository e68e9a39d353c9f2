// Package annotate turns free-form vision model output into bounding boxes
// and label/value fields, and builds the prompts that ask for that output.
package annotate

import (
	"regexp"
	"strconv"

	"github.com/liliang-cn/citelens/internal/domain"
)

// boxPattern matches four integers, optionally followed by a quoted string,
// with or without enclosing brackets.
var boxPattern = regexp.MustCompile(`\[?\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*,\s*(\d+)\s*(?:,\s*"([^"]*)"\s*)?\]?`)

// ExtractBoxes returns every coordinate tuple found in text, in order of
// appearance. It returns an empty slice when nothing matches.
func ExtractBoxes(text string) []domain.RawBox {
	matches := boxPattern.FindAllStringSubmatchIndex(text, -1)
	boxes := make([]domain.RawBox, 0, len(matches))
	for _, m := range matches {
		var box domain.RawBox
		ok := true
		for i := 0; i < 4; i++ {
			n, err := strconv.Atoi(text[m[2+2*i]:m[3+2*i]])
			if err != nil {
				ok = false
				break
			}
			box.Coords[i] = n
		}
		if !ok {
			continue
		}
		// group 5 is unset (-1) when no quoted text followed the numbers
		if m[10] >= 0 {
			box.Text = text[m[10]:m[11]]
			box.HasText = true
		}
		boxes = append(boxes, box)
	}
	return boxes
}

// ExtractCoordinates is ExtractBoxes without the quoted text.
func ExtractCoordinates(text string) [][4]int {
	boxes := ExtractBoxes(text)
	coords := make([][4]int, len(boxes))
	for i, b := range boxes {
		coords[i] = b.Coords
	}
	return coords
}

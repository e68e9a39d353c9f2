package annotate

import (
	"strings"

	"github.com/liliang-cn/citelens/internal/domain"
)

// ParseFields reads "label: value" lines. Everything after the first colon is
// the value, so "Time: 10:30 AM" keeps "10:30 AM" intact.
func ParseFields(text string) []domain.ExtractedField {
	var fields []domain.ExtractedField
	for _, line := range strings.Split(text, "\n") {
		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			continue
		}
		label := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(parts[0]), "-*•"))
		value := strings.TrimSpace(strings.Join(parts[1:], ":"))
		if label == "" || value == "" {
			continue
		}
		fields = append(fields, domain.ExtractedField{Label: label, Value: value})
	}
	return fields
}

// MatchFields attaches located boxes to fields by the text the model echoed
// back, never by list position. Fields the model did not locate keep an empty
// box list; boxes that name no field are dropped.
func MatchFields(fields []domain.ExtractedField, located []domain.RawBox) []domain.FieldHighlight {
	out := make([]domain.FieldHighlight, len(fields))
	for i, f := range fields {
		out[i] = domain.FieldHighlight{Field: f, Boxes: []domain.BoundingBox{}}
	}
	for _, r := range located {
		if !r.HasText {
			continue
		}
		if i := matchField(fields, r.Text); i >= 0 {
			out[i].Boxes = append(out[i].Boxes, Normalize(r.Coords))
		}
	}
	return out
}

func matchField(fields []domain.ExtractedField, text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return -1
	}
	for i, f := range fields {
		if f.Value == text {
			return i
		}
	}
	for i, f := range fields {
		if strings.EqualFold(f.Value, text) {
			return i
		}
	}
	lower := strings.ToLower(text)
	for i, f := range fields {
		v := strings.ToLower(strings.TrimSpace(f.Value))
		if v == "" {
			continue
		}
		if strings.Contains(v, lower) || strings.Contains(lower, v) {
			return i
		}
	}
	return -1
}

package annotate

import (
	"reflect"
	"testing"

	"github.com/liliang-cn/citelens/internal/domain"
)

func TestParseFields(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []domain.ExtractedField
	}{
		{
			name: "single line",
			text: "Start Date: 01/01/2023",
			want: []domain.ExtractedField{{Label: "Start Date", Value: "01/01/2023"}},
		},
		{
			name: "colon inside value",
			text: "Time: 10:30 AM",
			want: []domain.ExtractedField{{Label: "Time", Value: "10:30 AM"}},
		},
		{
			name: "bullets, blanks and prose",
			text: "Here is what I found\n\n- Name: Jane Doe\n* Total:  $40.00 \nURL: https://example.com/a\nNo colon here\nEmpty:\n",
			want: []domain.ExtractedField{
				{Label: "Name", Value: "Jane Doe"},
				{Label: "Total", Value: "$40.00"},
				{Label: "URL", Value: "https://example.com/a"},
			},
		},
		{
			name: "nothing",
			text: "no fields",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseFields(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseFields(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMatchFieldsByText(t *testing.T) {
	fields := []domain.ExtractedField{
		{Label: "Start Date", Value: "01/01/2023"},
		{Label: "Time", Value: "10:30 AM"},
		{Label: "Total", Value: "$40"},
	}
	// returned in a different order than the fields, with extras
	located := ExtractBoxes(`[100, 0, 200, 100, "10:30 am"]
[500, 250, 750, 500, "01/01/2023"]
[1, 2, 3, 4]
[5, 6, 7, 8, "unknown"]`)

	got := MatchFields(fields, located)
	if len(got) != 3 {
		t.Fatalf("got %d highlights, want 3", len(got))
	}
	if got[0].Field != fields[0] || len(got[0].Boxes) != 1 ||
		got[0].Boxes[0] != (domain.BoundingBox{X0: 0.25, Y0: 0.5, X1: 0.5, Y1: 0.75}) {
		t.Errorf("start date = %+v", got[0])
	}
	if len(got[1].Boxes) != 1 || got[1].Boxes[0] != (domain.BoundingBox{X0: 0, Y0: 0.1, X1: 0.1, Y1: 0.2}) {
		t.Errorf("time = %+v", got[1])
	}
	if got[2].Boxes == nil || len(got[2].Boxes) != 0 {
		t.Errorf("total should have an empty box list, got %+v", got[2].Boxes)
	}
}

func TestMatchFieldsContainment(t *testing.T) {
	fields := []domain.ExtractedField{{Label: "Address", Value: "1 Main Street, Springfield"}}
	located := ExtractBoxes(`[10, 10, 20, 90, "Main Street"]`)

	got := MatchFields(fields, located)
	if len(got[0].Boxes) != 1 {
		t.Fatalf("partial echo not matched: %+v", got)
	}
}

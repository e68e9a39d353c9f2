package annotate

import (
	"reflect"
	"testing"
)

func TestCitationMarkers(t *testing.T) {
	content := "Height is 828 m [1][3]. Opened 2010 [2]. See also [1] and [7] and [0]."
	got := CitationMarkers(content, 3)
	if want := []int{1, 3, 2}; !reflect.DeepEqual(got, want) {
		t.Errorf("CitationMarkers = %v, want %v", got, want)
	}
	if got := CitationMarkers("no markers", 3); len(got) != 0 {
		t.Errorf("CitationMarkers = %v, want none", got)
	}
	if got := CitationMarkers("only [1]", 0); len(got) != 0 {
		t.Errorf("markers without citations = %v", got)
	}
}

func TestCitedText(t *testing.T) {
	content := "The Burj Khalifa is **828 metres** tall [1]. It opened in 2010 [2][1].\n- Floors: 163 [3]"
	tests := []struct {
		marker int
		want   string
	}{
		{1, "The Burj Khalifa is **828 metres** tall"},
		{2, "It opened in 2010"},
		{3, "Floors: 163"},
		{9, "The Burj Khalifa is **828 metres** tall. It opened in 2010.\n- Floors: 163"},
	}
	for _, tt := range tests {
		if got := CitedText(content, tt.marker); got != tt.want {
			t.Errorf("CitedText(%d) = %q, want %q", tt.marker, got, tt.want)
		}
	}

	if got := CitedText("[1] starts the answer", 1); got != "starts the answer" {
		t.Errorf("leading marker fallback = %q", got)
	}
}

func TestStripMarkers(t *testing.T) {
	if got := StripMarkers("a [1]b[22] c"); got != "ab c" {
		t.Errorf("StripMarkers = %q", got)
	}
}

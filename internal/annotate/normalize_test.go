package annotate

import (
	"errors"
	"testing"

	"github.com/liliang-cn/citelens/internal/domain"
)

func TestNormalize(t *testing.T) {
	got := Normalize([4]int{500, 250, 750, 500})
	want := domain.BoundingBox{X0: 0.25, Y0: 0.5, X1: 0.5, Y1: 0.75}
	if got != want {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
}

func TestNormalizeDoesNotClamp(t *testing.T) {
	got := Normalize([4]int{750, 1200, 500, 100})
	want := domain.BoundingBox{X0: 1.2, Y0: 0.75, X1: 0.1, Y1: 0.5}
	if got != want {
		t.Errorf("Normalize = %+v, want %+v", got, want)
	}
	if got.Valid() {
		t.Error("inverted out-of-range box reported as valid")
	}
}

func TestDecodeBoxes(t *testing.T) {
	raw, boxes, err := DecodeBoxes("Found it: [500, 250, 750, 500]", DecodeOptions{})
	if err != nil {
		t.Fatalf("DecodeBoxes: %v", err)
	}
	if len(raw) != 1 || len(boxes) != 1 {
		t.Fatalf("got %d raw / %d boxes, want 1 / 1", len(raw), len(boxes))
	}
	if boxes[0] != (domain.BoundingBox{X0: 0.25, Y0: 0.5, X1: 0.5, Y1: 0.75}) {
		t.Errorf("box = %+v", boxes[0])
	}
}

func TestDecodeBoxesNoMatches(t *testing.T) {
	_, _, err := DecodeBoxes("nothing to see", DecodeOptions{})
	if !errors.Is(err, domain.ErrNoCoordinates) {
		t.Fatalf("err = %v, want ErrNoCoordinates", err)
	}
}

func TestDecodeBoxesRejectInvalid(t *testing.T) {
	text := "[750, 500, 500, 250] [100, 100, 200, 200]"

	_, boxes, err := DecodeBoxes(text, DecodeOptions{})
	if err != nil {
		t.Fatalf("DecodeBoxes: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("lenient decode kept %d boxes, want 2", len(boxes))
	}

	raw, boxes, err := DecodeBoxes(text, DecodeOptions{RejectInvalid: true})
	if err != nil {
		t.Fatalf("DecodeBoxes strict: %v", err)
	}
	if len(boxes) != 1 || raw[0].Coords != [4]int{100, 100, 200, 200} {
		t.Fatalf("strict decode = %+v, want only the ordered box", raw)
	}

	_, _, err = DecodeBoxes("[750, 500, 500, 250]", DecodeOptions{RejectInvalid: true})
	if !errors.Is(err, domain.ErrNoCoordinates) {
		t.Fatalf("err = %v, want ErrNoCoordinates when every box is rejected", err)
	}
}

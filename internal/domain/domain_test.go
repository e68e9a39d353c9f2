package domain

import (
	"errors"
	"fmt"
	"image"
	"testing"
)

func TestBoundingBoxValid(t *testing.T) {
	tests := []struct {
		box  BoundingBox
		want bool
	}{
		{BoundingBox{0.25, 0.5, 0.5, 0.75}, true},
		{BoundingBox{0, 0, 1, 1}, true},
		{BoundingBox{0.5, 0.5, 0.5, 0.5}, true},
		{BoundingBox{0.6, 0.1, 0.5, 0.2}, false},
		{BoundingBox{0.1, 0.3, 0.5, 0.2}, false},
		{BoundingBox{0.1, 0.1, 1.2, 0.2}, false},
		{BoundingBox{-0.1, 0.1, 0.5, 0.2}, false},
	}
	for _, tt := range tests {
		if got := tt.box.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.box, got, tt.want)
		}
	}
}

func TestBoundingBoxPixelsAndPercent(t *testing.T) {
	b := BoundingBox{X0: 0.25, Y0: 0.5, X1: 0.5, Y1: 0.75}
	if got, want := b.Pixels(800, 600), image.Rect(200, 300, 400, 450); got != want {
		t.Errorf("Pixels = %v, want %v", got, want)
	}
	if got, want := b.Percent(), (PercentBox{Left: 25, Top: 50, Width: 25, Height: 25}); got != want {
		t.Errorf("Percent = %+v, want %+v", got, want)
	}
}

func TestParseImage(t *testing.T) {
	img, err := ParseImage("data:image/jpg;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("ParseImage: %v", err)
	}
	if img.MIMEType != "image/jpeg" || img.Base64 != "aGVsbG8=" {
		t.Errorf("img = %+v", img)
	}
	if img.DataURL() != "data:image/jpeg;base64,aGVsbG8=" {
		t.Errorf("DataURL = %s", img.DataURL())
	}

	img, err = ParseImage("aGVsbG8=")
	if err != nil || img.MIMEType != DefaultImageMIME {
		t.Errorf("bare base64: %+v, %v", img, err)
	}
	data, _ := img.Bytes()
	if string(data) != "hello" {
		t.Errorf("Bytes = %q", data)
	}

	for _, bad := range []string{"", "data:image/png,notbase64", "%%%"} {
		if _, err := ParseImage(bad); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("ParseImage(%q) err = %v, want ErrInvalidRequest", bad, err)
		}
	}
}

func TestResultKinds(t *testing.T) {
	tests := []struct {
		err  error
		want ResultKind
	}{
		{nil, KindNone},
		{fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingAPIKey), KindConfig},
		{fmt.Errorf("%w: 500", ErrUpstream), KindUpstream},
		{ErrNoCoordinates, KindParse},
		{ErrNoFields, KindParse},
		{fmt.Errorf("%w: empty", ErrInvalidRequest), KindInvalid},
		{errors.New("boom"), KindUpstream},
	}
	for _, tt := range tests {
		if got := KindOf(tt.err); got != tt.want {
			t.Errorf("KindOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}

	r := Fail[[]BoundingBox]("Failed to find content coordinates", ErrNoCoordinates).WithRaw("no boxes")
	if r.IsSuccess || r.Kind != KindParse || r.Raw != "no boxes" || r.Error == "" {
		t.Errorf("failed result = %+v", r)
	}
	ok := Succeed("done", 3)
	if !ok.IsSuccess || ok.Data != 3 || ok.Kind != KindNone {
		t.Errorf("success result = %+v", ok)
	}
}

package domain

import (
	"image"
	"math"
)

// BoundingBox is a rectangle expressed as fractions of the image width (x)
// and height (y). Values are not clamped; use Valid to check them.
type BoundingBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Valid reports whether the box is ordered (x0<=x1, y0<=y1) and lies within
// the unit square.
func (b BoundingBox) Valid() bool {
	if b.X0 > b.X1 || b.Y0 > b.Y1 {
		return false
	}
	for _, v := range []float64{b.X0, b.Y0, b.X1, b.Y1} {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Pixels scales the box to an image of the given size.
func (b BoundingBox) Pixels(width, height int) image.Rectangle {
	return image.Rect(
		int(math.Round(b.X0*float64(width))),
		int(math.Round(b.Y0*float64(height))),
		int(math.Round(b.X1*float64(width))),
		int(math.Round(b.Y1*float64(height))),
	)
}

// PercentBox is the CSS overlay form of a bounding box.
type PercentBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Percent returns the box as left/top/width/height percentages.
func (b BoundingBox) Percent() PercentBox {
	return PercentBox{
		Left:   b.X0 * 100,
		Top:    b.Y0 * 100,
		Width:  (b.X1 - b.X0) * 100,
		Height: (b.Y1 - b.Y0) * 100,
	}
}

// RawBox is a coordinate tuple as emitted by the vision model, before
// normalization. Coords are on a 0-1000 scale in [ymin, xmin, ymax, xmax]
// order.
type RawBox struct {
	Coords  [4]int `json:"coords"`
	Text    string `json:"text,omitempty"`
	HasText bool   `json:"has_text,omitempty"`
}

// Highlight is a captioned region of a screenshot.
type Highlight struct {
	Text string      `json:"text"`
	BBox BoundingBox `json:"bbox"`
}

// ExtractedField is a label/value pair read from "label: value" lines.
type ExtractedField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FieldHighlight is an extracted field with the regions where its value was
// found. Boxes is empty when the model did not locate the value.
type FieldHighlight struct {
	Field ExtractedField `json:"field"`
	Boxes []BoundingBox  `json:"boxes"`
}

// LocatedContent is the outcome of asking the vision model to find content.
type LocatedContent struct {
	Text  string        `json:"text"`
	Boxes []BoundingBox `json:"coordinates"`
}

// Analysis is the raw outcome of a free-form prompt against an image.
type Analysis struct {
	Text        string   `json:"text"`
	Coordinates [][4]int `json:"coordinates,omitempty"`
}

// Package render paints highlight rectangles onto screenshots.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"github.com/liliang-cn/citelens/internal/domain"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Palette cycles through gold, light green, sky blue, light salmon, plum
// and khaki.
var Palette = []color.RGBA{
	{0xFF, 0xD7, 0x00, 0xFF},
	{0x90, 0xEE, 0x90, 0xFF},
	{0x87, 0xCE, 0xEB, 0xFF},
	{0xFF, 0xA0, 0x7A, 0xFF},
	{0xDD, 0xA0, 0xDD, 0xFF},
	{0xF0, 0xE6, 0x8C, 0xFF},
}

const (
	fillAlpha   = 0x33 // 20%
	strokeAlpha = 0x66 // 40%
	strokeWidth = 2
)

// Options tune the rendered output.
type Options struct {
	// MaxWidth scales wider images down, keeping the aspect ratio. Zero
	// keeps the original size.
	MaxWidth int
}

// Decode reads a JPEG, PNG, GIF or WebP image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Highlight returns a copy of src with every box filled and outlined, one
// palette color per box.
func Highlight(src image.Image, boxes []domain.BoundingBox, opts Options) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if opts.MaxWidth > 0 && w > opts.MaxWidth {
		h = h * opts.MaxWidth / w
		w = opts.MaxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	}

	for i, box := range boxes {
		c := Palette[i%len(Palette)]
		r := box.Pixels(w, h).Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		fill := color.NRGBA{c.R, c.G, c.B, fillAlpha}
		draw.Draw(dst, r, image.NewUniform(fill), image.Point{}, draw.Over)
		stroke(dst, r, color.NRGBA{c.R, c.G, c.B, strokeAlpha})
	}
	return dst
}

func stroke(dst *image.RGBA, r image.Rectangle, c color.NRGBA) {
	u := image.NewUniform(c)
	sw := strokeWidth
	if r.Dx() < 2*sw || r.Dy() < 2*sw {
		draw.Draw(dst, r, u, image.Point{}, draw.Over)
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+sw),
		image.Rect(r.Min.X, r.Max.Y-sw, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y+sw, r.Min.X+sw, r.Max.Y-sw),
		image.Rect(r.Max.X-sw, r.Min.Y+sw, r.Max.X, r.Max.Y-sw),
	}
	for _, e := range edges {
		draw.Draw(dst, e, u, image.Point{}, draw.Over)
	}
}

// AnnotatePNG decodes an inline image, draws the boxes and encodes the
// result as PNG.
func AnnotatePNG(img domain.Image, boxes []domain.BoundingBox, opts Options) ([]byte, error) {
	data, err := img.Bytes()
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	src, err := Decode(data)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, Highlight(src, boxes, opts)); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

package annotate

import "github.com/liliang-cn/citelens/internal/domain"

// CoordinateScale is the range the model is asked to report coordinates in.
const CoordinateScale = 1000.0

// Normalize converts [ymin, xmin, ymax, xmax] on the 0-1000 scale into a
// fractional box. The axis order is the one the prompts request; it is not
// checked against what the model actually returned.
func Normalize(c [4]int) domain.BoundingBox {
	return domain.BoundingBox{
		X0: float64(c[1]) / CoordinateScale,
		Y0: float64(c[0]) / CoordinateScale,
		X1: float64(c[3]) / CoordinateScale,
		Y1: float64(c[2]) / CoordinateScale,
	}
}

// NormalizeAll normalizes a batch of raw boxes.
func NormalizeAll(raw []domain.RawBox) []domain.BoundingBox {
	out := make([]domain.BoundingBox, len(raw))
	for i, r := range raw {
		out[i] = Normalize(r.Coords)
	}
	return out
}

// DecodeOptions controls how model output is turned into boxes.
type DecodeOptions struct {
	// RejectInvalid drops boxes that are inverted or fall outside [0,1].
	RejectInvalid bool
}

// DecodeBoxes extracts and normalizes every box in text. It fails with
// domain.ErrNoCoordinates when nothing usable was found, so a batch yields
// all parseable boxes or none.
func DecodeBoxes(text string, opts DecodeOptions) ([]domain.RawBox, []domain.BoundingBox, error) {
	raw := ExtractBoxes(text)
	kept := make([]domain.RawBox, 0, len(raw))
	boxes := make([]domain.BoundingBox, 0, len(raw))
	for _, r := range raw {
		b := Normalize(r.Coords)
		if opts.RejectInvalid && !b.Valid() {
			continue
		}
		kept = append(kept, r)
		boxes = append(boxes, b)
	}
	if len(boxes) == 0 {
		return nil, nil, domain.ErrNoCoordinates
	}
	return kept, boxes, nil
}

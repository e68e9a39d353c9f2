package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DefaultImageMIME is assumed when an image arrives as bare base64.
const DefaultImageMIME = "image/jpeg"

// Image is an inline image payload: base64 data plus its MIME type.
type Image struct {
	Base64   string `json:"base64"`
	MIMEType string `json:"mime_type"`
}

// NewImage encodes raw bytes.
func NewImage(data []byte, mimeType string) Image {
	return Image{Base64: base64.StdEncoding.EncodeToString(data), MIMEType: normalizeMIME(mimeType)}
}

// ParseImage accepts either a data URL ("data:image/png;base64,....") or bare
// base64, which is taken to be JPEG.
func ParseImage(s string) (Image, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Image{}, fmt.Errorf("%w: empty image", ErrInvalidRequest)
	}
	img := Image{Base64: s, MIMEType: DefaultImageMIME}
	if strings.HasPrefix(s, "data:") {
		header, data, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return Image{}, fmt.Errorf("%w: image data URL must be base64 encoded", ErrInvalidRequest)
		}
		mime := strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		if mime != "" {
			img.MIMEType = normalizeMIME(mime)
		}
		img.Base64 = data
	}
	if _, err := base64.StdEncoding.DecodeString(img.Base64); err != nil {
		return Image{}, fmt.Errorf("%w: image is not valid base64: %v", ErrInvalidRequest, err)
	}
	return img, nil
}

// DataURL renders the image as a data URL.
func (i Image) DataURL() string {
	return "data:" + i.MIMEType + ";base64," + i.Base64
}

// Bytes decodes the image data.
func (i Image) Bytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(i.Base64)
}

func normalizeMIME(m string) string {
	m = strings.ToLower(strings.TrimSpace(m))
	switch m {
	case "":
		return DefaultImageMIME
	case "image/jpg":
		return "image/jpeg"
	}
	return m
}

package image

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"

	"hp-adventure-api/internal/domain/entity"
)

const placeholderSize = 1024

// Placeholder serves a locally rendered night-sky PNG instead of calling a
// paid backend. The image is rendered once and reused for every turn.
type Placeholder struct {
	once   sync.Once
	base64 string
	err    error
}

// NewPlaceholder creates the placeholder backend.
func NewPlaceholder() *Placeholder {
	return &Placeholder{}
}

// Enabled always reports false; the placeholder is the fallback for a
// missing real backend.
func (p *Placeholder) Enabled() bool {
	return false
}

// Generate returns the cached placeholder image regardless of prompt.
func (p *Placeholder) Generate(_ context.Context, _ string) (*entity.Image, error) {
	p.once.Do(func() {
		p.base64, p.err = renderPlaceholder()
	})
	if p.err != nil {
		return nil, fmt.Errorf("failed to render placeholder image: %w", p.err)
	}
	return &entity.Image{
		MimeType: "image/png",
		Base64:   p.base64,
	}, nil
}

// renderPlaceholder draws a dark vertical gradient with a few fixed stars.
func renderPlaceholder() (string, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	for y := 0; y < placeholderSize; y++ {
		shade := uint8(20 + y*40/placeholderSize)
		row := color.RGBA{R: shade / 2, G: shade / 2, B: shade, A: 255}
		for x := 0; x < placeholderSize; x++ {
			img.SetRGBA(x, y, row)
		}
	}

	// deterministic star field
	star := color.RGBA{R: 230, G: 230, B: 210, A: 255}
	for i := 0; i < 96; i++ {
		x := (i*389 + 97) % placeholderSize
		y := (i*233 + 31) % (placeholderSize / 2)
		img.SetRGBA(x, y, star)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

package tagsphere

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// Font measures label text. Implementations must be deterministic: the same
// text and size always yield the same box.
type Font interface {
	Measure(s string, size float64) (width, height float64)
}

// faceProvider is implemented by fonts that can also draw.
type faceProvider interface {
	Face(size float64) *text.GoTextFace
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering. Faces are
// cached per size since labels reuse a handful of sizes.
type TTFFont struct {
	source *text.GoTextFaceSource
	faces  map[float64]*text.GoTextFace
	lh     map[float64]float64 // cached line height per size
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data.
func LoadTTFFont(ttfData []byte) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("tagsphere: failed to parse TTF data: %w", err)
	}
	return &TTFFont{
		source: source,
		faces:  make(map[float64]*text.GoTextFace),
		lh:     make(map[float64]float64),
	}, nil
}

var (
	defaultFontOnce sync.Once
	defaultFont     *TTFFont
	defaultFontErr  error
)

// DefaultFont returns the shared Go Regular face used when Config.Font is nil.
func DefaultFont() (*TTFFont, error) {
	defaultFontOnce.Do(func() {
		defaultFont, defaultFontErr = LoadTTFFont(goregular.TTF)
	})
	return defaultFont, defaultFontErr
}

// Face returns the GoTextFace at the given size for direct text/v2 rendering.
func (f *TTFFont) Face(size float64) *text.GoTextFace {
	if face, ok := f.faces[size]; ok {
		return face
	}
	face := &text.GoTextFace{Source: f.source, Size: size}
	m := face.Metrics()
	f.faces[size] = face
	f.lh[size] = m.HAscent + m.HDescent + m.HLineGap
	return face
}

// LineHeight returns the vertical distance between baselines at size.
func (f *TTFFont) LineHeight(size float64) float64 {
	f.Face(size)
	return f.lh[size]
}

// Measure returns the width and height of s rendered at size.
func (f *TTFFont) Measure(s string, size float64) (width, height float64) {
	face := f.Face(size)
	return text.Measure(s, face, f.lh[size])
}

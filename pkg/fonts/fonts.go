// Package fonts resolves system fonts and measures text for box sizing.
//
// Height estimation needs real glyph advances: wrapping "at roughly N
// characters" under- or over-fills boxes as soon as the text mixes wide
// and narrow glyphs. The package locates a TrueType file for one of the
// configured families via the platform font paths, parses it, and exposes
// string widths and line heights in inches at a fixed 96 DPI.
//
// When no configured family resolves to a font file (minimal containers,
// CI), measurement falls back to a fixed per-character width ratio. The
// fallback is deterministic, so layout output remains reproducible per
// environment either way.
package fonts

import (
	"os"
	"strings"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// renderDPI is the pixel density measurement assumes. The SVG renderer
// emits at the same density, so measured inches match rendered inches.
const renderDPI = 96

// fallbackCharWidth is the width of one character as a fraction of the
// point size, used when no font file can be resolved. 0.55 tracks the
// average advance of common UI sans faces.
const fallbackCharWidth = 0.55

// fallbackLineHeight is the line height as a fraction of the point size
// in the fallback path.
const fallbackLineHeight = 1.2

// Measurer reports text extents in inches for one font at one size.
type Measurer struct {
	face   font.Face // nil when running on fallback metrics
	family string
	sizePt float64
}

// parsed font cache, keyed by resolved file path.
var (
	fontMu    sync.Mutex
	fontCache = map[string]*truetype.Font{}
)

// Load resolves the first available family and returns a Measurer at the
// given point size. It never fails: when no family resolves, the returned
// Measurer uses ratio-based fallback metrics and Family reports "".
func Load(families []string, sizePt float64) *Measurer {
	for _, family := range families {
		tt, ok := resolve(family)
		if !ok {
			continue
		}
		face := truetype.NewFace(tt, &truetype.Options{
			Size: sizePt,
			DPI:  renderDPI,
		})
		return &Measurer{face: face, family: family, sizePt: sizePt}
	}
	return &Measurer{sizePt: sizePt}
}

// resolve finds and parses a TrueType file for the family name.
func resolve(family string) (*truetype.Font, bool) {
	path, err := findfont.Find(strings.ToLower(family) + ".ttf")
	if err != nil {
		return nil, false
	}

	fontMu.Lock()
	defer fontMu.Unlock()
	if tt, ok := fontCache[path]; ok {
		return tt, true
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, false
	}
	fontCache[path] = tt
	return tt, true
}

// Family returns the resolved family name, or "" on fallback metrics.
func (m *Measurer) Family() string { return m.family }

// Size returns the point size the Measurer was loaded at.
func (m *Measurer) Size() float64 { return m.sizePt }

// Width returns the rendered width of s in inches.
func (m *Measurer) Width(s string) float64 {
	if m.face == nil {
		return float64(len([]rune(s))) * fallbackCharWidth * m.sizePt / 72
	}
	return fixedToPx(font.MeasureString(m.face, s)) / renderDPI
}

// LineHeight returns the height of one text line in inches.
func (m *Measurer) LineHeight() float64 {
	if m.face == nil {
		return fallbackLineHeight * m.sizePt / 72
	}
	return fixedToPx(m.face.Metrics().Height) / renderDPI
}

// fixedToPx converts a 26.6 fixed-point pixel value to float64 pixels.
func fixedToPx(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

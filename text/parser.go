package text

// ParsedFont represents a parsed font file.
// This interface abstracts the underlying font representation.
//
// All lengths are in font units unless stated otherwise.
type ParsedFont interface {
	// Name returns the font family name.
	// Returns empty string if not available.
	Name() string

	// FullName returns the full font name.
	// Returns empty string if not available.
	FullName() string

	// NumGlyphs returns the number of glyphs in the font.
	NumGlyphs() int

	// UnitsPerEm returns the units per em for the font.
	UnitsPerEm() int

	// GlyphIndex returns the glyph index for a rune and whether the font
	// maps the rune to a real glyph.
	GlyphIndex(r rune) (uint16, bool)

	// GlyphAdvance returns the unhinted advance width of a glyph.
	GlyphAdvance(glyphIndex uint16) float64

	// VMetrics returns the font's vertical metrics.
	VMetrics() VMetrics

	// ScaleForPixelHeight returns the factor that maps font units to pixels
	// so that ascent+descent spans px pixels.
	ScaleForPixelHeight(px float64) float64
}

// VMetrics holds font-level vertical metrics in font units.
type VMetrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font (positive).
	Descent float64

	// LineGap is the recommended gap between lines.
	LineGap float64
}

// Height returns ascent plus descent.
func (m VMetrics) Height() float64 {
	return m.Ascent + m.Descent
}

// LineHeight returns the baseline-to-baseline distance.
func (m VMetrics) LineHeight() float64 {
	return m.Ascent + m.Descent + m.LineGap
}

// Parse parses font data (TTF or OTF) with the default backend.
func Parse(data []byte) (ParsedFont, error) {
	p, err := parseXImage(data)
	if err != nil {
		return nil, err
	}
	return p, nil
}

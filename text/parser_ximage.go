package text

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// ximageParsedFont implements ParsedFont using sfnt.Font.
//
// Lengths are obtained by asking sfnt for values at ppem == unitsPerEm,
// which makes its 26.6 pixel results equal to font units.
type ximageParsedFont struct {
	font *opentype.Font
	upem fixed.Int26_6
	vm   VMetrics
}

// parseXImage parses data with golang.org/x/image/font/opentype.
func parseXImage(data []byte) (*ximageParsedFont, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: failed to parse font: %w", err)
	}

	p := &ximageParsedFont{
		font: f,
		upem: fixed.Int26_6(f.UnitsPerEm()) << 6,
	}

	var buf sfnt.Buffer
	m, err := f.Metrics(&buf, p.upem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font metrics: %w", err)
	}
	p.vm = VMetrics{
		Ascent:  fixedToFloat64(m.Ascent),
		Descent: fixedToFloat64(m.Descent),
		LineGap: fixedToFloat64(m.Height - m.Ascent - m.Descent),
	}
	return p, nil
}

// Name implements ParsedFont.Name.
func (f *ximageParsedFont) Name() string {
	if buf, err := f.font.Name(nil, sfnt.NameIDFamily); err == nil && buf != "" {
		return buf
	}
	return ""
}

// FullName implements ParsedFont.FullName.
func (f *ximageParsedFont) FullName() string {
	if buf, err := f.font.Name(nil, sfnt.NameIDFull); err == nil && buf != "" {
		return buf
	}
	return ""
}

// NumGlyphs implements ParsedFont.NumGlyphs.
func (f *ximageParsedFont) NumGlyphs() int {
	return f.font.NumGlyphs()
}

// UnitsPerEm implements ParsedFont.UnitsPerEm.
func (f *ximageParsedFont) UnitsPerEm() int {
	return int(f.font.UnitsPerEm())
}

// GlyphIndex implements ParsedFont.GlyphIndex.
func (f *ximageParsedFont) GlyphIndex(r rune) (uint16, bool) {
	idx, err := f.font.GlyphIndex(nil, r)
	if err != nil || idx == 0 {
		return 0, false
	}
	return uint16(idx), true
}

// GlyphAdvance implements ParsedFont.GlyphAdvance.
func (f *ximageParsedFont) GlyphAdvance(glyphIndex uint16) float64 {
	var buf sfnt.Buffer
	advance, err := f.font.GlyphAdvance(&buf, sfnt.GlyphIndex(glyphIndex), f.upem, font.HintingNone)
	if err != nil {
		return 0
	}
	return fixedToFloat64(advance)
}

// VMetrics implements ParsedFont.VMetrics.
func (f *ximageParsedFont) VMetrics() VMetrics {
	return f.vm
}

// ScaleForPixelHeight implements ParsedFont.ScaleForPixelHeight.
func (f *ximageParsedFont) ScaleForPixelHeight(px float64) float64 {
	h := f.vm.Height()
	if h <= 0 {
		return 0
	}
	return px / h
}

// glyphOutline returns the glyph segments and bounds in font units, y down.
func (f *ximageParsedFont) glyphOutline(buf *sfnt.Buffer, glyphIndex uint16) (sfnt.Segments, fixed.Rectangle26_6, error) {
	gid := sfnt.GlyphIndex(glyphIndex)
	segments, err := f.font.LoadGlyph(buf, gid, f.upem, nil)
	if err != nil {
		return nil, fixed.Rectangle26_6{}, err
	}
	if len(segments) == 0 {
		return nil, fixed.Rectangle26_6{}, nil
	}
	return segments, segments.Bounds(), nil
}

// fixedToFloat64 converts fixed.Int26_6 to float64.
func fixedToFloat64(x fixed.Int26_6) float64 {
	return float64(x) / 64.0
}

package fontatlas

// UserFont is the font capability a renderer or layout engine consumes.
//
// Height is the font's native height; QueryGlyph and MeasureText take the
// height to draw at and scale from it. Glyph UVs refer to the texture
// identified by TextureID.
type UserFont interface {
	Height() float32
	QueryGlyph(height float32, r rune) Glyph
	MeasureText(height float32, s string) float32
	TextureID() uint32
}

var _ UserFont = (*Font)(nil)

// Height returns the bake height in pixels. It implements UserFont.
func (f *Font) Height() float32 {
	return f.pixelHeight
}

package fontatlas

import (
	"image"

	"github.com/gogpu/fontatlas/text"
)

// Vec2 is a 2D vector.
type Vec2 struct {
	X, Y float32
}

// Glyph describes how to draw one codepoint at a requested height.
// The zero Glyph is returned for codepoints that are not available.
type Glyph struct {
	// UV holds the top-left and bottom-right texture coordinates of the
	// glyph in the atlas, normalized against the current atlas size.
	UV [2]Vec2

	// Width and Height are the size of the quad in pixels.
	Width, Height float32

	// Offset is the top-left corner of the quad relative to the pen
	// position at the top of the line (y down).
	Offset Vec2

	// XAdvance is the horizontal pen advance in pixels.
	XAdvance float32

	// AtlasRect is the glyph's texel rectangle in the atlas. It does not
	// change when the atlas grows.
	AtlasRect image.Rectangle
}

// QueryGlyph returns the metrics and atlas coordinates of r scaled to
// drawHeight pixels, materializing r's group if needed.
//
// UVs are normalized against the atlas height at the time of the call;
// a later growth changes V coordinates but not AtlasRect.
func (f *Font) QueryGlyph(drawHeight float32, r rune) Glyph {
	if !f.Initialized() || r < 0 || r > f.cfg.atlas.MaxCodepoint {
		return Glyph{}
	}

	index, slot := f.cfg.atlas.group(r)
	g := f.lookupGroup(index)
	if g == nil || slot >= len(g.chars) {
		return Glyph{}
	}
	return f.glyph(g, g.chars[slot], drawHeight)
}

func (f *Font) glyph(g *group, ch text.PackedChar, drawHeight float32) Glyph {
	scale := drawHeight / f.pixelHeight

	x0, x1 := int(ch.X0), int(ch.X1)
	y0, y1 := int(ch.Y0)+g.yBegin, int(ch.Y1)+g.yBegin

	glyph := Glyph{
		Width:     float32(x1-x0) * scale / float32(f.oversampleX),
		Height:    float32(y1-y0) * scale / float32(f.oversampleY),
		XAdvance:  ch.XAdvance * scale,
		Offset:    Vec2{X: ch.XOff * scale, Y: (ch.YOff + f.ascent) * scale},
		AtlasRect: image.Rect(x0, y0, x1, y1),
	}

	// An atlas that only holds empty groups has no rows to normalize by.
	if f.atlasHeight > 0 {
		w, h := float32(f.cfg.atlas.AtlasWidth), float32(f.atlasHeight)
		glyph.UV[0] = Vec2{X: float32(x0) / w, Y: float32(y0) / h}
		glyph.UV[1] = Vec2{X: float32(x1) / w, Y: float32(y1) / h}
	}
	return glyph
}

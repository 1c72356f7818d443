package text

import (
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// GlyphBitmap represents a rasterized glyph.
// This contains the coverage mask and positioning information.
type GlyphBitmap struct {
	// Mask is the coverage mask with bounds (0, 0)-(w, h).
	// It is nil for glyphs without an outline, such as space.
	Mask *image.Alpha

	// Bounds is the pixel box of the mask relative to the glyph origin
	// (on the baseline, y down) at the rasterization scale.
	Bounds image.Rectangle
}

// Empty reports whether the glyph produced no pixels.
func (g *GlyphBitmap) Empty() bool {
	return g.Mask == nil || g.Bounds.Empty()
}

// Rasterizer renders glyph outlines to coverage masks.
// It reuses its sfnt buffer between calls and is not safe for concurrent use.
type Rasterizer struct {
	buf sfnt.Buffer
	z   vector.Rasterizer
}

// RasterizeGlyph renders a glyph to a coverage mask.
// scaleX and scaleY map font units to pixels on each axis, which allows
// anisotropic oversampling.
//
// Returns ErrUnsupportedFontType if parsed does not come from this package.
func (r *Rasterizer) RasterizeGlyph(parsed ParsedFont, glyphIndex uint16, scaleX, scaleY float64) (*GlyphBitmap, error) {
	xparsed, ok := parsed.(*ximageParsedFont)
	if !ok {
		return nil, ErrUnsupportedFontType
	}

	segments, bounds, err := xparsed.glyphOutline(&r.buf, glyphIndex)
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return &GlyphBitmap{}, nil
	}

	rect := image.Rect(
		int(math.Floor(fixedToFloat64(bounds.Min.X)*scaleX)),
		int(math.Floor(fixedToFloat64(bounds.Min.Y)*scaleY)),
		int(math.Ceil(fixedToFloat64(bounds.Max.X)*scaleX)),
		int(math.Ceil(fixedToFloat64(bounds.Max.Y)*scaleY)),
	)
	if rect.Empty() {
		return &GlyphBitmap{}, nil
	}

	w, h := rect.Dx(), rect.Dy()
	r.z.Reset(w, h)
	r.z.DrawOp = draw.Src

	pt := func(p fixed.Point26_6) (float32, float32) {
		return float32(fixedToFloat64(p.X)*scaleX - float64(rect.Min.X)),
			float32(fixedToFloat64(p.Y)*scaleY - float64(rect.Min.Y))
	}

	open := false
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				r.z.ClosePath()
			}
			r.z.MoveTo(pt(seg.Args[0]))
			open = true
		case sfnt.SegmentOpLineTo:
			r.z.LineTo(pt(seg.Args[0]))
		case sfnt.SegmentOpQuadTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			r.z.QuadTo(bx, by, cx, cy)
		case sfnt.SegmentOpCubeTo:
			bx, by := pt(seg.Args[0])
			cx, cy := pt(seg.Args[1])
			dx, dy := pt(seg.Args[2])
			r.z.CubeTo(bx, by, cx, cy, dx, dy)
		}
	}
	if open {
		r.z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return &GlyphBitmap{
		Mask:   mask,
		Bounds: rect,
	}, nil
}

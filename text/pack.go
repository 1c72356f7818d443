package text

import (
	"fmt"
	"sort"
)

// MaxOversample is the largest supported oversampling factor per axis.
const MaxOversample = 8

// PackedChar is the placement and metrics of one packed codepoint.
//
// X0..Y1 is the glyph rectangle inside the pack region in oversampled
// pixels. The offsets locate that rectangle relative to the pen position on
// the baseline (y down) and, like XAdvance, are in output pixels at the
// pack's pixel height. Codepoints that were skipped or have no outline have
// an empty rectangle.
type PackedChar struct {
	X0, Y0, X1, Y1 uint16
	XOff, YOff     float32
	XAdvance       float32
	XOff2, YOff2   float32
}

// Empty reports whether the record has no pixels.
func (c PackedChar) Empty() bool {
	return c.X1 <= c.X0 || c.Y1 <= c.Y0
}

// PackContext rasterizes codepoint ranges into a caller-provided 8-bit
// coverage buffer, placing glyphs with a shelf allocator.
//
// A PackContext is a single packing session over one region; glyphs of
// consecutive PackRange calls do not overlap. It is not safe for concurrent
// use.
type PackContext struct {
	pixels  []byte
	width   int
	height  int
	stride  int
	padding int

	oversampleX int
	oversampleY int
	skipMissing bool

	alloc  *ShelfAllocator
	raster Rasterizer
}

// NewPackContext starts packing into pixels, a width x height region whose
// rows are stride bytes apart. padding is the gap left between glyphs.
func NewPackContext(pixels []byte, width, height, stride, padding int) (*PackContext, error) {
	if width <= 0 || height <= 0 || stride < width {
		return nil, fmt.Errorf("%w: %dx%d stride %d", ErrInvalidPackRegion, width, height, stride)
	}
	if need := stride*(height-1) + width; len(pixels) < need {
		return nil, fmt.Errorf("%w: need %d bytes, got %d", ErrInvalidPackRegion, need, len(pixels))
	}
	if padding < 0 {
		padding = 0
	}

	return &PackContext{
		pixels:      pixels,
		width:       width,
		height:      height,
		stride:      stride,
		padding:     padding,
		oversampleX: 1,
		oversampleY: 1,
		alloc:       NewShelfAllocator(width, height, padding),
	}, nil
}

// SetOversampling sets the oversampling factors used by later PackRange
// calls. Values are clamped to [1, MaxOversample].
func (pc *PackContext) SetOversampling(x, y int) {
	pc.oversampleX = clampOversample(x)
	pc.oversampleY = clampOversample(y)
}

// SetSkipMissingCodepoints controls what happens to codepoints the font
// does not map: when skip is true they get an empty record, otherwise the
// font's .notdef glyph is packed in their place.
func (pc *PackContext) SetSkipMissingCodepoints(skip bool) {
	pc.skipMissing = skip
}

// packItem is a glyph waiting for placement.
type packItem struct {
	index  int
	bitmap *GlyphBitmap
	w, h   int // oversampled size including the prefilter margin
}

// PackRange rasterizes count codepoints starting at first at the given pixel
// height and packs them into the region. It returns one record per codepoint.
//
// If any glyph cannot be placed, PackRange returns a *PackError and the
// region may contain partial output.
func (pc *PackContext) PackRange(src *FontSource, pixelHeight float64, first rune, count int) ([]PackedChar, error) {
	if src == nil || src.Closed() {
		return nil, ErrSourceClosed
	}
	if count <= 0 {
		return nil, nil
	}

	parsed := src.Parsed()
	scale := parsed.ScaleForPixelHeight(pixelHeight)
	ox, oy := pc.oversampleX, pc.oversampleY
	scaleX, scaleY := scale*float64(ox), scale*float64(oy)
	subX, subY := oversampleShift(ox), oversampleShift(oy)

	chars := make([]PackedChar, count)
	items := make([]packItem, 0, count)

	for i := range count {
		r := first + rune(i)
		gid, ok := parsed.GlyphIndex(r)
		if !ok && pc.skipMissing {
			continue
		}

		chars[i].XAdvance = float32(parsed.GlyphAdvance(gid) * scale)

		bm, err := pc.raster.RasterizeGlyph(parsed, gid, scaleX, scaleY)
		if err != nil {
			return nil, fmt.Errorf("text: rasterize U+%04X: %w", r, err)
		}
		if bm.Empty() {
			continue
		}
		items = append(items, packItem{
			index:  i,
			bitmap: bm,
			w:      bm.Bounds.Dx() + ox - 1,
			h:      bm.Bounds.Dy() + oy - 1,
		})
	}

	// Tallest first keeps shelves tight.
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].h > items[b].h
	})

	for _, it := range items {
		x, y, ok := pc.alloc.Allocate(it.w, it.h)
		if !ok {
			return nil, &PackError{
				First:        first,
				Count:        count,
				Codepoint:    first + rune(it.index),
				Width:        it.w,
				Height:       it.h,
				RegionWidth:  pc.width,
				RegionHeight: pc.height,
			}
		}

		pc.blit(it.bitmap, x, y)
		if ox > 1 {
			pc.prefilterH(x, y, it.w, it.h, ox)
		}
		if oy > 1 {
			pc.prefilterV(x, y, it.w, it.h, oy)
		}

		b := it.bitmap.Bounds
		c := &chars[it.index]
		c.X0, c.Y0 = uint16(x), uint16(y)
		c.X1, c.Y1 = uint16(x+it.w), uint16(y+it.h)
		c.XOff = float32(float64(b.Min.X)/float64(ox) + subX)
		c.YOff = float32(float64(b.Min.Y)/float64(oy) + subY)
		c.XOff2 = float32(float64(b.Min.X+it.w)/float64(ox) + subX)
		c.YOff2 = float32(float64(b.Min.Y+it.h)/float64(oy) + subY)
	}

	return chars, nil
}

// blit copies a glyph mask to (x, y) in the region.
func (pc *PackContext) blit(bm *GlyphBitmap, x, y int) {
	m := bm.Mask
	w, h := m.Rect.Dx(), m.Rect.Dy()
	for row := range h {
		src := m.Pix[row*m.Stride : row*m.Stride+w]
		off := (y+row)*pc.stride + x
		copy(pc.pixels[off:off+w], src)
	}
}

// prefilterH applies a box filter of width k to each row of the w x h block
// at (x, y). Each output pixel is the mean of itself and the k-1 pixels to
// its left, which spreads the glyph over the k-1 margin columns.
func (pc *PackContext) prefilterH(x, y, w, h, k int) {
	var window [MaxOversample]byte
	for row := range h {
		p := pc.pixels[(y+row)*pc.stride+x : (y+row)*pc.stride+x+w]
		total := 0
		window = [MaxOversample]byte{}
		for i := range w {
			total += int(p[i]) - int(window[i%k])
			window[i%k] = p[i]
			p[i] = byte(total / k)
		}
	}
}

// prefilterV is prefilterH on columns.
func (pc *PackContext) prefilterV(x, y, w, h, k int) {
	var window [MaxOversample]byte
	for col := range w {
		total := 0
		window = [MaxOversample]byte{}
		for i := range h {
			off := (y+i)*pc.stride + x + col
			v := pc.pixels[off]
			total += int(v) - int(window[i%k])
			window[i%k] = v
			pc.pixels[off] = byte(total / k)
		}
	}
}

// oversampleShift is the sub-pixel offset that centers a box-filtered
// oversampled glyph over its unfiltered position.
func oversampleShift(o int) float64 {
	if o <= 1 {
		return 0
	}
	return -float64(o-1) / (2 * float64(o))
}

func clampOversample(v int) int {
	if v < 1 {
		return 1
	}
	if v > MaxOversample {
		return MaxOversample
	}
	return v
}

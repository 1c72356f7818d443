// Package text loads fonts and rasterizes glyph ranges into packed bitmaps.
//
// It is the rasterization engine behind the fontatlas glyph atlas, split in
// three parts:
//
//   - FontSource: owns the raw font bytes (TTF/OTF, optionally zstd-compressed)
//   - ParsedFont: metrics and glyph lookup (default backend: golang.org/x/image/font/sfnt)
//   - PackContext: rasterizes a codepoint range and packs it into a caller buffer
//
// # Example usage
//
//	source, err := text.LoadFontSource("DejaVuSans.ttf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer source.Close()
//
//	pix := make([]byte, 512*512)
//	pc, err := text.NewPackContext(pix, 512, 512, 512, 1)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pc.SetOversampling(2, 2)
//	pc.SetSkipMissingCodepoints(true)
//	chars, err := pc.PackRange(source, 32, 0, 128)
//
// # Pixel height
//
// Sizes are pixel heights: the distance from the font's descender to its
// ascender, not an em size. ScaleForPixelHeight converts a pixel height to a
// font-unit scale.
//
// # Oversampling
//
// With oversampling (x, y) glyphs are rendered x times wider and y times
// taller, box-filtered, and the reported offsets are shifted so that the
// filtered image lines up with the unscaled glyph. Packed rectangles are in
// oversampled pixels; offsets and advances are in output pixels.
package text

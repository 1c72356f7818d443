// Package fontatlas bakes the glyphs of a single font into a GPU texture
// atlas on demand.
//
// Codepoints are grouped into fixed-size ranges (128 per group by default).
// A group is rasterized the first time any of its codepoints is queried,
// packed into a horizontal band of its own and appended below the existing
// atlas. Bands are never moved, so texel coordinates handed out earlier stay
// valid while the atlas grows downward.
//
// # Quick Start
//
//	f, err := fontatlas.Load("DejaVuSans.ttf", 18, 2, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer f.Close()
//
//	w := f.MeasureText(18, "Hello, 世界")
//	g := f.QueryGlyph(18, 'A') // UVs into f.Texture()
//
// # Textures
//
// The atlas is a single-channel texture created through a [gpu.Device].
// By default a CPU-backed [gpu.MemoryDevice] is used; pass
// [WithDevice] with a gpu/gltex device to render with OpenGL.
//
// # Consumers
//
// [UserFont] is the interface a renderer or layout engine consumes; *Font
// implements it.
//
// # Logging
//
// The package is silent by default. Use [SetLogger] or [WithLogger] to
// observe group materialization and failures.
//
// # Concurrency
//
// A Font is not safe for concurrent use. Growth of the atlas happens
// synchronously inside QueryGlyph and MeasureText.
package fontatlas

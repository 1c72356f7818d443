package fontatlas

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/gogpu/fontatlas/gpu"
	"github.com/gogpu/fontatlas/text"
	"github.com/gogpu/gputypes"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Font is a single font baked on demand into a growing texture atlas.
//
// The zero value is not usable; create fonts with New or Load.
type Font struct {
	cfg fontConfig

	path        string
	source      *text.FontSource
	pixelHeight float32
	oversampleX int
	oversampleY int
	ascent      float32

	texture     gpu.Texture
	atlasHeight int

	groups map[int]*group
	failed map[int]struct{}

	widths *lru.Cache[widthKey, float32]
}

// New creates an uninitialized Font. Call Init to load a font file.
func New(opts ...Option) (*Font, error) {
	c := defaultFontConfig()
	for _, opt := range opts {
		opt(&c)
	}
	if err := c.atlas.Validate(); err != nil {
		return nil, err
	}
	if c.device == nil {
		c.device = gpu.NewMemoryDevice()
	}

	f := &Font{cfg: c}
	if c.widthCache > 0 {
		cache, err := lru.New[widthKey, float32](c.widthCache)
		if err != nil {
			return nil, fmt.Errorf("fontatlas: width cache: %w", err)
		}
		f.widths = cache
	}
	return f, nil
}

// Load creates a Font and initializes it from the font file at path.
func Load(path string, pixelHeight float32, oversampleX, oversampleY int, opts ...Option) (*Font, error) {
	f, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := f.Init(path, pixelHeight, oversampleX, oversampleY); err != nil {
		return nil, err
	}
	return f, nil
}

// Init loads the font file at path for baking at pixelHeight with the given
// oversampling factors and creates an empty atlas texture.
//
// A previously initialized Font is cleaned up first and its texture
// released. On error the Font is left uninitialized.
func (f *Font) Init(path string, pixelHeight float32, oversampleX, oversampleY int) error {
	if f.Initialized() || f.texture != nil {
		f.Cleanup()
		if err := f.releaseTexture(); err != nil {
			f.logger().Warn("fontatlas: release texture failed", "err", err)
		}
	}

	switch {
	case path == "":
		return ErrEmptyPath
	case !(pixelHeight > 0) || math.IsInf(float64(pixelHeight), 1):
		return ErrInvalidHeight
	case oversampleX < 1 || oversampleY < 1,
		oversampleX > text.MaxOversample || oversampleY > text.MaxOversample:
		return ErrInvalidOversample
	}

	source, err := text.LoadFontSource(path)
	if err != nil {
		return &LoadError{Path: path, Err: err}
	}

	tex, err := f.createTexture()
	if err != nil {
		_ = source.Close()
		return &LoadError{Path: path, Err: err}
	}

	parsed := source.Parsed()
	scale := parsed.ScaleForPixelHeight(float64(pixelHeight))

	f.path = path
	f.source = source
	f.pixelHeight = pixelHeight
	f.oversampleX = oversampleX
	f.oversampleY = oversampleY
	f.ascent = float32(math.Round(parsed.VMetrics().Ascent * scale))
	f.texture = tex
	f.atlasHeight = 0
	f.groups = make(map[int]*group)
	f.failed = make(map[int]struct{})

	f.logger().Info("fontatlas: font loaded",
		"path", path,
		"name", source.Name(),
		"pixelHeight", pixelHeight,
		"oversample", fmt.Sprintf("%dx%d", oversampleX, oversampleY),
		"texture", tex.ID())
	return nil
}

// createTexture creates the R8 atlas texture with linear filtering and the
// coverage channel replicated to RGBA. A texture that fails configuration
// is released before returning.
func (f *Font) createTexture() (gpu.Texture, error) {
	tex, err := f.cfg.device.CreateTexture(gpu.TextureDescriptor{
		Label:  "fontatlas",
		Format: gputypes.TextureFormatR8Unorm,
		Usage:  gpu.DefaultTextureUsage,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	if err := tex.SetFilter(gputypes.FilterModeLinear, gputypes.FilterModeLinear); err != nil {
		_ = tex.Release()
		return nil, fmt.Errorf("set texture filter: %w", err)
	}
	if err := tex.SetSwizzle(gpu.SwizzleCoverage); err != nil {
		_ = tex.Release()
		return nil, fmt.Errorf("set texture swizzle: %w", err)
	}
	return tex, nil
}

// Cleanup releases all baked groups and the font data and resets the atlas
// height to zero. The texture object is kept; use Close to release it too.
//
// Cleanup is idempotent and safe on a Font that was never initialized.
func (f *Font) Cleanup() {
	f.groups = nil
	f.failed = nil
	if f.widths != nil {
		f.widths.Purge()
	}
	if f.source != nil {
		_ = f.source.Close()
		f.source = nil
	}
	f.atlasHeight = 0
	f.ascent = 0
}

// Close cleans up the Font and releases its texture. Close is idempotent.
func (f *Font) Close() error {
	f.Cleanup()
	return f.releaseTexture()
}

func (f *Font) releaseTexture() error {
	if f.texture == nil {
		return nil
	}
	err := f.texture.Release()
	f.texture = nil
	if err != nil {
		return fmt.Errorf("fontatlas: release texture: %w", err)
	}
	return nil
}

// logger returns the Font's logger, falling back to the package logger.
func (f *Font) logger() *slog.Logger {
	if f.cfg.logger != nil {
		return f.cfg.logger
	}
	return Logger()
}

// Initialized reports whether a font file is loaded.
func (f *Font) Initialized() bool {
	return f.source != nil
}

// Path returns the path the font was loaded from.
func (f *Font) Path() string {
	return f.path
}

// PixelHeight returns the height glyphs are baked at.
func (f *Font) PixelHeight() float32 {
	return f.pixelHeight
}

// Ascent returns the rounded ascent in pixels at the bake height.
func (f *Font) Ascent() float32 {
	return f.ascent
}

// Oversample returns the oversampling factors.
func (f *Font) Oversample() (x, y int) {
	return f.oversampleX, f.oversampleY
}

// Texture returns the atlas texture, or nil before Init and after Close.
func (f *Font) Texture() gpu.Texture {
	return f.texture
}

// TextureID returns the atlas texture handle, or gpu.InvalidTextureID if
// there is no texture.
func (f *Font) TextureID() uint32 {
	if f.texture == nil {
		return gpu.InvalidTextureID
	}
	return f.texture.ID()
}

// AtlasSize returns the atlas width and its current height.
func (f *Font) AtlasSize() (width, height int) {
	return f.cfg.atlas.AtlasWidth, f.atlasHeight
}

// GroupCount returns the number of materialized groups.
func (f *Font) GroupCount() int {
	return len(f.groups)
}

// GroupOffset returns the atlas row where group index begins, and whether
// that group is materialized.
func (f *Font) GroupOffset(index int) (int, bool) {
	g, ok := f.groups[index]
	if !ok {
		return 0, false
	}
	return g.yBegin, true
}

// Config returns the atlas layout constants.
func (f *Font) Config() Config {
	return f.cfg.atlas
}

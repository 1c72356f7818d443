// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"golang.org/x/image/draw"
)

// MemoryDevice creates CPU-backed textures.
//
// It behaves like a GPU device that never loses data: uploads are copied,
// read-backs return exactly what was uploaded and mip levels are computed
// with bilinear downscaling. It is used by headless tools and by tests that
// need to observe every texture operation.
//
// MemoryDevice is safe for concurrent use; the textures it creates are not.
type MemoryDevice struct {
	nextID atomic.Uint32

	mu   sync.Mutex
	live map[uint32]*MemoryTexture
}

// NewMemoryDevice creates an empty device.
func NewMemoryDevice() *MemoryDevice {
	return &MemoryDevice{live: make(map[uint32]*MemoryTexture)}
}

// CreateTexture implements Device.
func (d *MemoryDevice) CreateTexture(desc TextureDescriptor) (Texture, error) {
	t, err := d.NewTexture(desc)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// NewTexture is CreateTexture returning the concrete type.
func (d *MemoryDevice) NewTexture(desc TextureDescriptor) (*MemoryTexture, error) {
	bpp := BytesPerPixel(desc.Format)
	if bpp == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, desc.Format)
	}
	usage := desc.Usage
	if usage == 0 {
		usage = DefaultTextureUsage
	}

	t := &MemoryTexture{
		device:  d,
		id:      d.nextID.Add(1),
		label:   desc.Label,
		format:  desc.Format,
		usage:   usage,
		bpp:     bpp,
		swizzle: SwizzleIdentity,
		// OpenGL defaults; the atlas always overrides them.
		minFilter: gputypes.FilterModeNearest,
		magFilter: gputypes.FilterModeLinear,
	}

	d.mu.Lock()
	d.live[t.id] = t
	d.mu.Unlock()
	return t, nil
}

// Live returns the number of textures that have not been released.
func (d *MemoryDevice) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.live)
}

func (d *MemoryDevice) forget(id uint32) {
	d.mu.Lock()
	delete(d.live, id)
	d.mu.Unlock()
}

// MemoryTexture is a Texture stored in main memory.
type MemoryTexture struct {
	device *MemoryDevice
	id     uint32
	label  string
	format gputypes.TextureFormat
	usage  gputypes.TextureUsage
	bpp    int

	width  int
	height int
	pix    []byte
	mips   []draw.Image // levels 1..n

	minFilter gputypes.FilterMode
	magFilter gputypes.FilterMode
	swizzle   Swizzle

	uploads   int
	downloads int
	mipBuilds int

	released bool
}

// ID implements Texture.
func (t *MemoryTexture) ID() uint32 {
	if t.released {
		return InvalidTextureID
	}
	return t.id
}

// Label returns the debug label.
func (t *MemoryTexture) Label() string { return t.label }

// Format returns the texture format.
func (t *MemoryTexture) Format() gputypes.TextureFormat { return t.format }

// Usage returns the usage flags.
func (t *MemoryTexture) Usage() gputypes.TextureUsage { return t.usage }

// Size implements Texture.
func (t *MemoryTexture) Size() (width, height int) {
	return t.width, t.height
}

// SetFilter implements Texture.
func (t *MemoryTexture) SetFilter(minFilter, magFilter gputypes.FilterMode) error {
	if t.released {
		return ErrTextureReleased
	}
	t.minFilter, t.magFilter = minFilter, magFilter
	return nil
}

// Filter returns the minification and magnification filters.
func (t *MemoryTexture) Filter() (minFilter, magFilter gputypes.FilterMode) {
	return t.minFilter, t.magFilter
}

// SetSwizzle implements Texture.
func (t *MemoryTexture) SetSwizzle(s Swizzle) error {
	if t.released {
		return ErrTextureReleased
	}
	t.swizzle = s
	return nil
}

// Swizzle returns the channel mapping.
func (t *MemoryTexture) Swizzle() Swizzle { return t.swizzle }

// Upload implements Texture. The previous image and mip chain are discarded.
func (t *MemoryTexture) Upload(width, height int, pix []byte) error {
	if t.released {
		return ErrTextureReleased
	}
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	n := width * height * t.bpp
	if len(pix) < n {
		return fmt.Errorf("%w: need %d bytes for %dx%d, got %d",
			ErrTextureSizeMismatch, n, width, height, len(pix))
	}

	if cap(t.pix) >= n {
		t.pix = t.pix[:n]
	} else {
		t.pix = make([]byte, n)
	}
	copy(t.pix, pix[:n])
	t.width, t.height = width, height
	t.mips = nil
	t.uploads++
	return nil
}

// Download implements Texture.
func (t *MemoryTexture) Download(dst []byte) error {
	if t.released {
		return ErrTextureReleased
	}
	if len(dst) < len(t.pix) {
		return fmt.Errorf("%w: need %d bytes for %dx%d, got %d",
			ErrTextureSizeMismatch, len(t.pix), t.width, t.height, len(dst))
	}
	copy(dst, t.pix)
	t.downloads++
	return nil
}

// GenerateMipmaps implements Texture. Each level halves the previous one
// (rounding down, minimum 1) until a 1x1 level is produced.
func (t *MemoryTexture) GenerateMipmaps() error {
	if t.released {
		return ErrTextureReleased
	}
	t.mips = t.mips[:0]
	t.mipBuilds++
	if t.width == 0 || t.height == 0 {
		return nil
	}

	src := t.level0()
	w, h := t.width, t.height
	for w > 1 || h > 1 {
		w, h = max(w/2, 1), max(h/2, 1)
		dst := t.newImage(w, h)
		draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
		t.mips = append(t.mips, dst)
		src = dst
	}
	return nil
}

// Release implements Texture.
func (t *MemoryTexture) Release() error {
	if t.released {
		return nil
	}
	t.released = true
	t.pix = nil
	t.mips = nil
	if t.device != nil {
		t.device.forget(t.id)
	}
	return nil
}

// IsReleased returns true if the texture has been released.
func (t *MemoryTexture) IsReleased() bool { return t.released }

// Pixels returns the level 0 pixel data. The slice is owned by the texture
// and is invalidated by the next Upload.
func (t *MemoryTexture) Pixels() []byte { return t.pix }

// MipLevels returns the number of levels including level 0.
func (t *MemoryTexture) MipLevels() int {
	if t.width == 0 || t.height == 0 {
		return 0
	}
	return 1 + len(t.mips)
}

// Level returns mip level i as an image, or nil if it does not exist.
func (t *MemoryTexture) Level(i int) image.Image {
	switch {
	case i == 0 && t.width > 0 && t.height > 0:
		return t.level0()
	case i > 0 && i <= len(t.mips):
		return t.mips[i-1]
	default:
		return nil
	}
}

// Uploads returns the number of successful Upload calls.
func (t *MemoryTexture) Uploads() int { return t.uploads }

// Downloads returns the number of successful Download calls.
func (t *MemoryTexture) Downloads() int { return t.downloads }

// MipmapBuilds returns the number of GenerateMipmaps calls.
func (t *MemoryTexture) MipmapBuilds() int { return t.mipBuilds }

// level0 wraps the pixel data without copying.
func (t *MemoryTexture) level0() draw.Image {
	r := image.Rect(0, 0, t.width, t.height)
	if t.bpp == 1 {
		return &image.Gray{Pix: t.pix, Stride: t.width, Rect: r}
	}
	return &image.RGBA{Pix: t.pix, Stride: t.width * 4, Rect: r}
}

func (t *MemoryTexture) newImage(w, h int) draw.Image {
	r := image.Rect(0, 0, w, h)
	if t.bpp == 1 {
		return image.NewGray(r)
	}
	return image.NewRGBA(r)
}

var _ Texture = (*MemoryTexture)(nil)

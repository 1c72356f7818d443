// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gltex implements gpu.Device on OpenGL 3.3 core.
//
// The caller owns the GL context: it must be current on the calling thread
// and gl.Init must have been called before any texture is created. Every
// operation binds the texture, does its work and restores the previously
// bound 2D texture.
package gltex

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fontatlas/gpu"
)

// Device creates GL textures in the current context.
type Device struct{}

// CreateTexture implements gpu.Device.
func (Device) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	internal, format, err := glFormat(desc.Format)
	if err != nil {
		return nil, err
	}

	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return nil, fmt.Errorf("gltex: glGenTextures failed for %q: %w", desc.Label, glError())
	}
	return &Texture{
		id:       id,
		label:    desc.Label,
		internal: internal,
		format:   format,
		bpp:      gpu.BytesPerPixel(desc.Format),
	}, nil
}

// Texture is a GL_TEXTURE_2D object.
type Texture struct {
	id       uint32
	label    string
	internal int32
	format   uint32
	bpp      int
	width    int
	height   int
}

// ID implements gpu.Texture.
func (t *Texture) ID() uint32 { return t.id }

// Size implements gpu.Texture.
func (t *Texture) Size() (width, height int) { return t.width, t.height }

// SetFilter implements gpu.Texture.
func (t *Texture) SetFilter(minFilter, magFilter gputypes.FilterMode) error {
	return t.with(func() {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, glFilter(minFilter))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, glFilter(magFilter))
	})
}

// SetSwizzle implements gpu.Texture.
func (t *Texture) SetSwizzle(s gpu.Swizzle) error {
	return t.with(func() {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_R, glChannel(s.R))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_G, glChannel(s.G))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_B, glChannel(s.B))
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_SWIZZLE_A, glChannel(s.A))
	})
}

// Upload implements gpu.Texture.
func (t *Texture) Upload(width, height int, pix []byte) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", gpu.ErrInvalidDimensions, width, height)
	}
	n := width * height * t.bpp
	if len(pix) < n {
		return fmt.Errorf("%w: need %d bytes for %dx%d, got %d",
			gpu.ErrTextureSizeMismatch, n, width, height, len(pix))
	}

	var ptr unsafe.Pointer
	if n > 0 {
		ptr = gl.Ptr(pix)
	}
	err := t.with(func() {
		gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
		gl.TexImage2D(gl.TEXTURE_2D, 0, t.internal, int32(width), int32(height), 0,
			t.format, gl.UNSIGNED_BYTE, ptr)
	})
	if err != nil {
		return err
	}
	t.width, t.height = width, height
	return nil
}

// Download implements gpu.Texture.
func (t *Texture) Download(dst []byte) error {
	n := t.width * t.height * t.bpp
	if len(dst) < n {
		return fmt.Errorf("%w: need %d bytes for %dx%d, got %d",
			gpu.ErrTextureSizeMismatch, n, t.width, t.height, len(dst))
	}
	if n == 0 {
		return nil
	}
	return t.with(func() {
		gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
		gl.GetTexImage(gl.TEXTURE_2D, 0, t.format, gl.UNSIGNED_BYTE, gl.Ptr(dst))
	})
}

// GenerateMipmaps implements gpu.Texture.
func (t *Texture) GenerateMipmaps() error {
	if t.width == 0 || t.height == 0 {
		return nil
	}
	return t.with(func() {
		gl.GenerateMipmap(gl.TEXTURE_2D)
	})
}

// Release implements gpu.Texture.
func (t *Texture) Release() error {
	if t.id == 0 {
		return nil
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
	t.width, t.height = 0, 0
	return nil
}

// with binds the texture, runs fn and restores the previous binding.
func (t *Texture) with(fn func()) error {
	if t.id == 0 {
		return gpu.ErrTextureReleased
	}
	var last int32
	gl.GetIntegerv(gl.TEXTURE_BINDING_2D, &last)
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	fn()
	err := glError()
	gl.BindTexture(gl.TEXTURE_2D, uint32(last))
	if err != nil {
		return fmt.Errorf("gltex: texture %d (%s): %w", t.id, t.label, err)
	}
	return nil
}

// glError drains the GL error queue and reports the first error.
func glError() error {
	var first uint32
	for {
		e := gl.GetError()
		if e == gl.NO_ERROR {
			break
		}
		if first == 0 {
			first = e
		}
	}
	if first == 0 {
		return nil
	}
	return fmt.Errorf("GL error 0x%04x", first)
}

func glFormat(f gputypes.TextureFormat) (internal int32, format uint32, err error) {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return gl.R8, gl.RED, nil
	case gputypes.TextureFormatRGBA8Unorm:
		return gl.RGBA8, gl.RGBA, nil
	default:
		return 0, 0, fmt.Errorf("%w: %v", gpu.ErrUnsupportedFormat, f)
	}
}

func glFilter(f gputypes.FilterMode) int32 {
	if f == gputypes.FilterModeNearest {
		return gl.NEAREST
	}
	return gl.LINEAR
}

func glChannel(c gpu.Channel) int32 {
	switch c {
	case gpu.ChannelGreen:
		return gl.GREEN
	case gpu.ChannelBlue:
		return gl.BLUE
	case gpu.ChannelAlpha:
		return gl.ALPHA
	case gpu.ChannelZero:
		return gl.ZERO
	case gpu.ChannelOne:
		return gl.ONE
	default:
		return gl.RED
	}
}

var _ gpu.Device = Device{}

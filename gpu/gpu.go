// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu defines the texture resource consumed by the glyph atlas.
//
// The atlas needs very little from a graphics API: a single-channel 2D
// texture that can be created, configured for linear sampling with the
// coverage channel replicated to RGBA, re-specified at a new size, read
// back, mipmapped and deleted. Device and Texture capture exactly that.
//
// Two implementations are provided:
//   - [MemoryDevice]: CPU-backed textures for headless tools and tests.
//   - gpu/gltex: OpenGL 3.3 core textures (requires a current GL context).
//
// Usage:
//
//	dev := gpu.NewMemoryDevice()
//	tex, err := dev.CreateTexture(gpu.TextureDescriptor{
//	    Label:  "glyphs",
//	    Format: gputypes.TextureFormatR8Unorm,
//	})
package gpu

import (
	"github.com/gogpu/gputypes"
)

// InvalidTextureID is reported for textures that do not exist.
const InvalidTextureID uint32 = 0

// DefaultTextureUsage is the usage requested for atlas textures: the atlas is
// sampled, re-uploaded on growth and read back before every growth.
const DefaultTextureUsage = gputypes.TextureUsageCopySrc | gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// TextureDescriptor describes a texture to create.
// Textures start empty (0x0); their size is set by the first Upload.
type TextureDescriptor struct {
	// Label is an optional debug label.
	Label string

	// Format is the pixel format. Only gputypes.TextureFormatR8Unorm is
	// required by the atlas; implementations may reject others.
	Format gputypes.TextureFormat

	// Usage flags. Zero means DefaultTextureUsage.
	Usage gputypes.TextureUsage
}

// Device creates textures.
type Device interface {
	CreateTexture(desc TextureDescriptor) (Texture, error)
}

// Texture is a GPU-resident 2D texture.
//
// Implementations are not required to be safe for concurrent use.
type Texture interface {
	// ID returns the backend handle, or InvalidTextureID after Release.
	ID() uint32

	// Size returns the current dimensions in pixels.
	Size() (width, height int)

	// SetFilter sets the minification and magnification filters.
	SetFilter(minFilter, magFilter gputypes.FilterMode) error

	// SetSwizzle maps the sampled channels.
	SetSwizzle(s Swizzle) error

	// Upload replaces the whole image (level 0) with pix, which holds
	// width*height*bytesPerPixel bytes in row-major order without padding.
	Upload(width, height int, pix []byte) error

	// Download copies the whole level 0 image into dst.
	// len(dst) must be at least width*height*bytesPerPixel.
	Download(dst []byte) error

	// GenerateMipmaps rebuilds the mip chain from level 0.
	GenerateMipmaps() error

	// Release frees the backend resource. Release is idempotent.
	Release() error
}

// Channel is a texture channel source used by Swizzle.
type Channel uint8

const (
	ChannelRed Channel = iota
	ChannelGreen
	ChannelBlue
	ChannelAlpha
	ChannelZero
	ChannelOne
)

// String returns a human-readable name for the channel.
func (c Channel) String() string {
	switch c {
	case ChannelRed:
		return "R"
	case ChannelGreen:
		return "G"
	case ChannelBlue:
		return "B"
	case ChannelAlpha:
		return "A"
	case ChannelZero:
		return "0"
	case ChannelOne:
		return "1"
	default:
		return "?"
	}
}

// Swizzle selects the source channel of each sampled component.
type Swizzle struct {
	R, G, B, A Channel
}

// SwizzleIdentity samples every channel from itself.
var SwizzleIdentity = Swizzle{R: ChannelRed, G: ChannelGreen, B: ChannelBlue, A: ChannelAlpha}

// SwizzleCoverage replicates a single-channel coverage image to all four
// components so that it samples as white text on a transparent background.
var SwizzleCoverage = Swizzle{R: ChannelRed, G: ChannelRed, B: ChannelRed, A: ChannelRed}

// String returns the swizzle in "RRRR" form.
func (s Swizzle) String() string {
	return s.R.String() + s.G.String() + s.B.String() + s.A.String()
}

// BytesPerPixel returns the number of bytes per pixel for the formats the
// texture backends in this module understand. Unknown formats report 0.
func BytesPerPixel(f gputypes.TextureFormat) int {
	switch f {
	case gputypes.TextureFormatR8Unorm:
		return 1
	case gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatBGRA8Unorm:
		return 4
	default:
		return 0
	}
}

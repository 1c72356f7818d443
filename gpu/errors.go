// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "errors"

// Texture-related errors.
var (
	// ErrTextureReleased is returned when operating on a released texture.
	ErrTextureReleased = errors.New("gpu: texture has been released")

	// ErrTextureSizeMismatch is returned when a pixel buffer does not match
	// the texture dimensions.
	ErrTextureSizeMismatch = errors.New("gpu: pixel buffer size does not match texture")

	// ErrInvalidDimensions is returned for negative or zero-width images.
	ErrInvalidDimensions = errors.New("gpu: invalid texture dimensions")

	// ErrUnsupportedFormat is returned for formats a backend cannot store.
	ErrUnsupportedFormat = errors.New("gpu: unsupported texture format")
)

package fontatlas

import (
	"log/slog"

	"github.com/gogpu/fontatlas/gpu"
	"golang.org/x/text/unicode/norm"
)

// Option configures a Font.
type Option func(*fontConfig)

// fontConfig holds configuration for a Font.
type fontConfig struct {
	atlas      Config
	device     gpu.Device
	logger     *slog.Logger
	widthCache int
	normalize  bool
	form       norm.Form
	dumpPath   string
}

// defaultFontConfig returns the default font configuration.
func defaultFontConfig() fontConfig {
	return fontConfig{
		atlas: DefaultConfig(),
	}
}

// WithConfig replaces the atlas layout constants.
func WithConfig(c Config) Option {
	return func(fc *fontConfig) {
		fc.atlas = c
	}
}

// WithDevice sets the device the atlas texture is created on.
// The default is a new gpu.MemoryDevice.
func WithDevice(d gpu.Device) Option {
	return func(fc *fontConfig) {
		fc.device = d
	}
}

// WithLogger sets a logger for this font, overriding the package logger.
func WithLogger(l *slog.Logger) Option {
	return func(fc *fontConfig) {
		fc.logger = l
	}
}

// WithWidthCache memoizes MeasureText results for up to n distinct
// (height, text) pairs. A value of 0 disables the cache.
func WithWidthCache(n int) Option {
	return func(fc *fontConfig) {
		fc.widthCache = n
	}
}

// WithNormalization applies the Unicode normalization form f to text before
// it is measured, so that for example a decomposed "é" measures as the
// precomposed "é" under norm.NFC.
func WithNormalization(f norm.Form) Option {
	return func(fc *fontConfig) {
		fc.normalize = true
		fc.form = f
	}
}

// WithAtlasDump writes the atlas as a grayscale PNG to path after every
// growth. Intended for debugging.
func WithAtlasDump(path string) Option {
	return func(fc *fontConfig) {
		fc.dumpPath = path
	}
}

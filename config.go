package fontatlas

import "unicode"

// Limits imposed by 16-bit glyph rectangles in the pack records.
const (
	maxAtlasWidth     = 16384
	maxGroupHeightCap = 65535
)

// Config holds the atlas layout constants.
type Config struct {
	// AtlasWidth is the fixed width of the atlas texture in pixels.
	AtlasWidth int

	// CharsPerGroup is the number of consecutive codepoints baked together.
	CharsPerGroup int

	// MaxGroupHeight bounds the band a single group may occupy. Groups whose
	// glyphs do not fit are not materialized.
	MaxGroupHeight int

	// MaxCodepoint is the highest codepoint the atlas will bake.
	MaxCodepoint rune

	// Padding is the gap in pixels left between packed glyphs.
	Padding int
}

// DefaultConfig returns a 512-pixel wide atlas with 128-codepoint groups
// covering all of Unicode.
func DefaultConfig() Config {
	return Config{
		AtlasWidth:     512,
		CharsPerGroup:  128,
		MaxGroupHeight: 512,
		MaxCodepoint:   unicode.MaxRune,
		Padding:        1,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.AtlasWidth < 1 {
		return &ConfigError{Field: "AtlasWidth", Reason: "must be positive"}
	}
	if c.AtlasWidth > maxAtlasWidth {
		return &ConfigError{Field: "AtlasWidth", Reason: "must be at most 16384"}
	}
	if c.CharsPerGroup < 1 {
		return &ConfigError{Field: "CharsPerGroup", Reason: "must be positive"}
	}
	if c.MaxGroupHeight < 1 {
		return &ConfigError{Field: "MaxGroupHeight", Reason: "must be positive"}
	}
	if c.MaxGroupHeight > maxGroupHeightCap {
		return &ConfigError{Field: "MaxGroupHeight", Reason: "must be at most 65535"}
	}
	if c.MaxCodepoint < 0 || c.MaxCodepoint > unicode.MaxRune {
		return &ConfigError{Field: "MaxCodepoint", Reason: "must be a valid Unicode codepoint"}
	}
	if c.Padding < 0 {
		return &ConfigError{Field: "Padding", Reason: "must be non-negative"}
	}
	if c.Padding >= c.AtlasWidth {
		return &ConfigError{Field: "Padding", Reason: "must be less than AtlasWidth"}
	}
	return nil
}

// NumGroups returns the number of group slots needed to cover codepoints
// 0 through MaxCodepoint.
func (c Config) NumGroups() int {
	if c.CharsPerGroup < 1 {
		return 0
	}
	return int(c.MaxCodepoint)/c.CharsPerGroup + 1
}

// group returns the group index and slot of r.
func (c Config) group(r rune) (index, slot int) {
	return int(r) / c.CharsPerGroup, int(r) % c.CharsPerGroup
}

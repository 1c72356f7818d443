package text

import (
	"errors"
	"fmt"
)

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrPackFailed is returned when a glyph range does not fit the pack region.
	ErrPackFailed = errors.New("text: glyph range does not fit pack region")

	// ErrInvalidPackRegion is returned when a pack buffer is too small for
	// the requested dimensions.
	ErrInvalidPackRegion = errors.New("text: invalid pack region")

	// ErrSourceClosed is returned when packing from a closed FontSource.
	ErrSourceClosed = errors.New("text: font source is closed")
)

// ErrUnsupportedFontType is returned when the font type is not supported.
var ErrUnsupportedFontType = &FontError{Reason: "unsupported font type for rasterization"}

// FontError represents a font-related error.
type FontError struct {
	Reason string
}

func (e *FontError) Error() string {
	return "text: " + e.Reason
}

// PackError reports the glyph that could not be placed while packing a range.
type PackError struct {
	// First and Count describe the range being packed.
	First rune
	Count int

	// Codepoint is the glyph that did not fit, with its padded size in
	// oversampled pixels.
	Codepoint     rune
	Width, Height int

	// Region is the size of the pack region.
	RegionWidth, RegionHeight int
}

func (e *PackError) Error() string {
	return fmt.Sprintf("text: cannot pack U+%04X (%dx%d) of range U+%04X+%d into %dx%d region",
		e.Codepoint, e.Width, e.Height, e.First, e.Count, e.RegionWidth, e.RegionHeight)
}

// Unwrap returns ErrPackFailed so callers can use errors.Is.
func (e *PackError) Unwrap() error {
	return ErrPackFailed
}

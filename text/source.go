package text

import (
	"bytes"
	"fmt"
	"os"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the frame magic number of a zstd stream.
var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// FontSource represents a loaded font file.
// FontSource owns the font bytes for its whole lifetime; the atlas keeps one
// per font and packs every glyph group from it.
//
// FontSource is not safe for concurrent use.
// FontSource must not be copied after creation (enforced by copyCheck).
type FontSource struct {
	// addr is used for copy protection (Ebitengine pattern).
	// It must point to the FontSource itself.
	addr *FontSource

	// Font data
	data   []byte
	parsed ParsedFont

	// Metadata
	name string
}

// NewFontSource creates a FontSource from font data (TTF or OTF).
// Data starting with a zstd frame header is decompressed first.
// The data slice is copied internally and can be reused after this call.
func NewFontSource(data []byte) (*FontSource, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	var owned []byte
	if bytes.HasPrefix(data, zstdMagic) {
		var err error
		if owned, err = decompress(data); err != nil {
			return nil, err
		}
	} else {
		owned = make([]byte, len(data))
		copy(owned, data)
	}
	if len(owned) == 0 {
		return nil, ErrEmptyFontData
	}

	parsed, err := Parse(owned)
	if err != nil {
		return nil, err
	}

	s := &FontSource{
		data:   owned,
		parsed: parsed,
	}
	s.addr = s // Self-reference for copy detection

	s.name = extractFontName(parsed)
	return s, nil
}

// LoadFontSource loads a FontSource from a font file path.
// Both plain font files and zstd-compressed ones (e.g. "Roboto.ttf.zst")
// are accepted.
func LoadFontSource(path string) (*FontSource, error) {
	// #nosec G304 -- Font file path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("text: failed to read font file: %w", err)
	}

	return NewFontSource(data)
}

// decompress inflates a zstd-compressed font.
func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("text: zstd decoder: %w", err)
	}
	defer dec.Close()

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("text: failed to decompress font: %w", err)
	}
	return out, nil
}

// Name returns the font name.
func (s *FontSource) Name() string {
	s.copyCheck()
	return s.name
}

// Data returns the (decompressed) font bytes. The slice must not be modified.
func (s *FontSource) Data() []byte {
	s.copyCheck()
	return s.data
}

// Parsed returns the parsed font for advanced operations.
func (s *FontSource) Parsed() ParsedFont {
	s.copyCheck()
	return s.parsed
}

// Closed reports whether Close has been called.
func (s *FontSource) Closed() bool {
	s.copyCheck()
	return s.parsed == nil
}

// Close releases the font bytes. Close is idempotent.
func (s *FontSource) Close() error {
	s.copyCheck()

	s.data = nil
	s.parsed = nil
	return nil
}

// copyCheck panics if FontSource was copied by value.
// This is the Ebitengine pattern for preventing accidental copies.
func (s *FontSource) copyCheck() {
	if s.addr != s {
		panic("text: FontSource must not be copied by value")
	}
}

// extractFontName extracts the font family name from the parsed font.
func extractFontName(parsed ParsedFont) string {
	if name := parsed.Name(); name != "" {
		return name
	}

	if fullName := parsed.FullName(); fullName != "" {
		return fullName
	}

	return "Unknown Font"
}

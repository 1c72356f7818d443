package fontatlas

import "unicode/utf8"

// widthKey identifies a memoized MeasureText result.
type widthKey struct {
	height float32
	text   string
}

// MeasureText returns the width of s in pixels when drawn at drawHeight,
// as the sum of the advances of its codepoints. No kerning is applied.
//
// Measurement stops at the first malformed UTF-8 sequence and the width of
// the preceding text is returned. Empty text measures 0.
func (f *Font) MeasureText(drawHeight float32, s string) float32 {
	if s == "" || !f.Initialized() {
		return 0
	}

	key := widthKey{height: drawHeight, text: s}
	if f.widths != nil {
		if w, ok := f.widths.Get(key); ok {
			return w
		}
	}

	if f.cfg.normalize {
		s = f.cfg.form.String(s)
	}

	var width float32
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if r == utf8.RuneError && size <= 1 {
			break
		}
		width += f.QueryGlyph(drawHeight, r).XAdvance
		s = s[size:]
	}

	if f.widths != nil {
		f.widths.Add(key, width)
	}
	return width
}

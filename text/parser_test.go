package text

import (
	"math"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

func TestParseMetrics(t *testing.T) {
	parsed, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if parsed.UnitsPerEm() != 2048 {
		t.Errorf("UnitsPerEm() = %d, want 2048", parsed.UnitsPerEm())
	}
	if parsed.NumGlyphs() == 0 {
		t.Error("NumGlyphs() = 0")
	}

	vm := parsed.VMetrics()
	if vm.Ascent <= 0 || vm.Descent <= 0 {
		t.Errorf("VMetrics() = %+v, want positive ascent and descent", vm)
	}
	if vm.Height() != vm.Ascent+vm.Descent {
		t.Errorf("Height() = %v, want %v", vm.Height(), vm.Ascent+vm.Descent)
	}
	if vm.LineHeight() < vm.Height() {
		t.Errorf("LineHeight() = %v < Height() = %v", vm.LineHeight(), vm.Height())
	}
}

func TestParseError(t *testing.T) {
	parsed, err := Parse([]byte{0, 1, 2, 3})
	if err == nil {
		t.Fatal("expected parse error")
	}
	if parsed != nil {
		t.Error("expected nil ParsedFont on error")
	}
}

func TestScaleForPixelHeight(t *testing.T) {
	parsed, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	for _, px := range []float64{8, 13, 16, 32, 100} {
		scale := parsed.ScaleForPixelHeight(px)
		got := scale * parsed.VMetrics().Height()
		if math.Abs(got-px) > 1e-9 {
			t.Errorf("px=%v: scale*height = %v", px, got)
		}
	}
}

func TestGlyphIndex(t *testing.T) {
	parsed, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tests := []struct {
		r    rune
		want bool
	}{
		{'A', true},
		{'z', true},
		{' ', true},
		{0x00E9, true},  // é
		{0x0378, false}, // unassigned
		{0x10FFFD, false},
	}

	for _, tt := range tests {
		gid, ok := parsed.GlyphIndex(tt.r)
		if ok != tt.want {
			t.Errorf("GlyphIndex(%U) ok = %v, want %v", tt.r, ok, tt.want)
		}
		if ok && gid == 0 {
			t.Errorf("GlyphIndex(%U) returned .notdef", tt.r)
		}
	}
}

func TestGlyphAdvance(t *testing.T) {
	parsed, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	gidA, _ := parsed.GlyphIndex('A')
	gidI, _ := parsed.GlyphIndex('i')
	advA := parsed.GlyphAdvance(gidA)
	advI := parsed.GlyphAdvance(gidI)

	if advA <= 0 || advI <= 0 {
		t.Fatalf("advances must be positive: A=%v i=%v", advA, advI)
	}
	if advA <= advI {
		t.Errorf("expected 'A' (%v) wider than 'i' (%v)", advA, advI)
	}
	if advA > float64(parsed.UnitsPerEm())*2 {
		t.Errorf("advance %v not in font units", advA)
	}
}

package fontatlas

import (
	"bytes"
	"errors"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/fontatlas/gpu"
)

func TestGrowFirstGroup(t *testing.T) {
	f, _ := newTestFont(t)
	tex := memTexture(t, f)

	g := f.QueryGlyph(32, 'A')
	if g.XAdvance <= 0 {
		t.Fatalf("QueryGlyph('A') = %+v", g)
	}

	if f.GroupCount() != 1 {
		t.Errorf("GroupCount() = %d, want 1", f.GroupCount())
	}
	yBegin, ok := f.GroupOffset(0)
	if !ok || yBegin != 0 {
		t.Errorf("GroupOffset(0) = %d,%v, want 0,true", yBegin, ok)
	}

	w, h := f.AtlasSize()
	if h <= 0 || h > f.Config().MaxGroupHeight {
		t.Fatalf("atlas height = %d", h)
	}
	if tw, th := tex.Size(); tw != w || th != h {
		t.Errorf("texture size %dx%d, atlas %dx%d", tw, th, w, h)
	}
	if tex.Uploads() != 1 || tex.Downloads() != 0 || tex.MipmapBuilds() != 1 {
		t.Errorf("uploads=%d downloads=%d mipmaps=%d, want 1/0/1",
			tex.Uploads(), tex.Downloads(), tex.MipmapBuilds())
	}
	if tex.MipLevels() < 2 {
		t.Errorf("MipLevels() = %d", tex.MipLevels())
	}

	// Group height is tight: the lowest glyph touches the last row.
	if g.AtlasRect.Max.Y > h {
		t.Errorf("'A' rect %v below atlas height %d", g.AtlasRect, h)
	}
	lastRow := tex.Pixels()[(h-1)*w : h*w]
	if bytes.Count(lastRow, []byte{0}) == w {
		t.Error("last atlas row is empty; group height is not tight")
	}
}

func TestGrowSecondGroup(t *testing.T) {
	f, _ := newTestFont(t)
	tex := memTexture(t, f)

	before := f.QueryGlyph(32, 'A')
	w, h1 := f.AtlasSize()
	snapshot := append([]byte(nil), tex.Pixels()...)

	g200 := f.QueryGlyph(32, 200) // È, group 1
	if g200.XAdvance <= 0 {
		t.Fatalf("QueryGlyph(200) = %+v", g200)
	}

	yBegin, ok := f.GroupOffset(1)
	if !ok || yBegin != h1 {
		t.Errorf("GroupOffset(1) = %d,%v, want %d,true", yBegin, ok, h1)
	}
	_, h2 := f.AtlasSize()
	if h2 <= h1 {
		t.Fatalf("atlas did not grow: %d -> %d", h1, h2)
	}
	if g200.AtlasRect.Min.Y < h1 {
		t.Errorf("new glyph %v overlaps old band ending at %d", g200.AtlasRect, h1)
	}

	if tex.Uploads() != 2 || tex.Downloads() != 1 || tex.MipmapBuilds() != 2 {
		t.Errorf("uploads=%d downloads=%d mipmaps=%d, want 2/1/2",
			tex.Uploads(), tex.Downloads(), tex.MipmapBuilds())
	}
	if !bytes.Equal(tex.Pixels()[:w*h1], snapshot) {
		t.Error("existing atlas rows changed during growth")
	}

	after := f.QueryGlyph(32, 'A')
	if after.AtlasRect != before.AtlasRect {
		t.Errorf("AtlasRect moved: %v -> %v", before.AtlasRect, after.AtlasRect)
	}
	if after.UV[0].X != before.UV[0].X || after.UV[1].X != before.UV[1].X {
		t.Errorf("U changed: %v -> %v", before.UV, after.UV)
	}
	if got := after.UV[0].Y * float32(h2); !near(got, float32(after.AtlasRect.Min.Y), 1e-2) {
		t.Errorf("V*height = %v, want %d", got, after.AtlasRect.Min.Y)
	}
	if after.UV[1].Y >= before.UV[1].Y {
		t.Errorf("V should shrink as the atlas grows: %v -> %v", before.UV[1].Y, after.UV[1].Y)
	}
}

func TestGrowMonotonic(t *testing.T) {
	f, _ := newTestFontSize(t, 16, 1, 1)

	prev := 0
	for _, r := range []rune{'a', 0x00E9, 0x0101, 0x0190, 0x0210, 0x0400, 0x0450} {
		index := int(r) / f.Config().CharsPerGroup
		if _, ok := f.GroupOffset(index); ok {
			continue
		}

		f.QueryGlyph(16, r)

		yBegin, ok := f.GroupOffset(index)
		if !ok {
			t.Fatalf("group %d for %U not materialized", index, r)
		}
		if yBegin != prev {
			t.Errorf("group %d yBegin = %d, want %d", index, yBegin, prev)
		}
		_, h := f.AtlasSize()
		if h < prev {
			t.Fatalf("atlas shrank: %d -> %d", prev, h)
		}
		prev = h
	}
}

func TestGroupCached(t *testing.T) {
	f, _ := newTestFont(t)
	tex := memTexture(t, f)

	for range 3 {
		f.QueryGlyph(32, 'x')
		f.QueryGlyph(32, 'y')
	}
	if tex.Uploads() != 1 {
		t.Errorf("Uploads() = %d, want 1", tex.Uploads())
	}
}

func TestGrowPackFailure(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := DefaultConfig()
	cfg.MaxGroupHeight = 4
	f, _ := newTestFont(t, WithConfig(cfg), WithLogger(l))
	tex := memTexture(t, f)

	if g := f.QueryGlyph(32, 'A'); g != (Glyph{}) {
		t.Errorf("QueryGlyph = %+v, want zero glyph", g)
	}
	if f.GroupCount() != 0 {
		t.Errorf("GroupCount() = %d, want 0", f.GroupCount())
	}
	if _, h := f.AtlasSize(); h != 0 {
		t.Errorf("atlas height = %d, want 0", h)
	}
	if !strings.Contains(buf.String(), "group not materialized") {
		t.Errorf("expected warning, got:\n%s", buf.String())
	}

	// The failure is remembered; the group is not packed again.
	buf.Reset()
	f.QueryGlyph(32, 'B')
	if buf.Len() != 0 {
		t.Errorf("failed group was retried:\n%s", buf.String())
	}
	if tex.Uploads() != 0 {
		t.Errorf("Uploads() = %d, want 0", tex.Uploads())
	}

	// Other groups are unaffected by the tombstone but fail the same way.
	if f.ensureGroup(1) {
		t.Error("group 1 should not fit either")
	}
}

var errBackend = errors.New("backend error")

// flakyDevice hands out textures whose uploads and mipmap builds can be
// made to fail a given number of times.
type flakyDevice struct {
	*gpu.MemoryDevice
	tex *flakyTexture
}

func (d *flakyDevice) CreateTexture(desc gpu.TextureDescriptor) (gpu.Texture, error) {
	tex, err := d.MemoryDevice.CreateTexture(desc)
	if err != nil {
		return nil, err
	}
	d.tex = &flakyTexture{Texture: tex}
	return d.tex, nil
}

type flakyTexture struct {
	gpu.Texture
	failUploads int
	failMipmaps int
}

func (t *flakyTexture) Upload(width, height int, pix []byte) error {
	if t.failUploads > 0 {
		t.failUploads--
		return errBackend
	}
	return t.Texture.Upload(width, height, pix)
}

func (t *flakyTexture) GenerateMipmaps() error {
	if t.failMipmaps > 0 {
		t.failMipmaps--
		return errBackend
	}
	return t.Texture.GenerateMipmaps()
}

func newFlakyFont(t *testing.T) (*Font, *flakyDevice, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	dev := &flakyDevice{MemoryDevice: gpu.NewMemoryDevice()}

	f, err := Load(writeTestFont(t), 32, 1, 1, WithDevice(dev), WithLogger(l))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	t.Cleanup(func() {
		_ = f.Close()
	})
	return f, dev, &buf
}

func TestGrowMipmapFailure(t *testing.T) {
	f, dev, logs := newFlakyFont(t)

	f.QueryGlyph(32, 'A')
	_, h1 := f.AtlasSize()

	dev.tex.failMipmaps = 1
	if g := f.QueryGlyph(32, 200); g.XAdvance <= 0 {
		t.Fatalf("group kept after mipmap failure: %+v", g)
	}
	if yBegin, ok := f.GroupOffset(1); !ok || yBegin != h1 {
		t.Errorf("GroupOffset(1) = %d,%v, want %d,true", yBegin, ok, h1)
	}
	_, h2 := f.AtlasSize()
	if _, th := f.Texture().Size(); th != h2 {
		t.Fatalf("atlas height %d out of sync with texture height %d", h2, th)
	}
	if !strings.Contains(logs.String(), "generate mipmaps failed") {
		t.Errorf("expected mipmap warning, got:\n%s", logs.String())
	}

	// Later groups still grow from the real texture height.
	if g := f.QueryGlyph(32, 0x0416); g.XAdvance <= 0 {
		t.Fatalf("QueryGlyph(U+0416) after mipmap failure = %+v", g)
	}
	if yBegin, ok := f.GroupOffset(8); !ok || yBegin != h2 {
		t.Errorf("GroupOffset(8) = %d,%v, want %d,true", yBegin, ok, h2)
	}
}

func TestGrowUploadFailure(t *testing.T) {
	f, dev, logs := newFlakyFont(t)

	f.QueryGlyph(32, 'A')
	_, h1 := f.AtlasSize()

	dev.tex.failUploads = 1
	if g := f.QueryGlyph(32, 200); g != (Glyph{}) {
		t.Errorf("QueryGlyph after upload failure = %+v, want zero glyph", g)
	}
	if !strings.Contains(logs.String(), "group not materialized") {
		t.Errorf("expected warning, got:\n%s", logs.String())
	}
	if _, h := f.AtlasSize(); h != h1 {
		t.Errorf("atlas height = %d after failed upload, want %d", h, h1)
	}

	// The failed group stays failed; other groups are unaffected.
	if g := f.QueryGlyph(32, 201); g != (Glyph{}) {
		t.Errorf("failed group was retried: %+v", g)
	}
	if g := f.QueryGlyph(32, 0x0416); g.XAdvance <= 0 {
		t.Fatalf("QueryGlyph(U+0416) after upload failure = %+v", g)
	}
	if yBegin, ok := f.GroupOffset(8); !ok || yBegin != h1 {
		t.Errorf("GroupOffset(8) = %d,%v, want %d,true", yBegin, ok, h1)
	}
}

func TestEnsureGroupBounds(t *testing.T) {
	f, _ := newTestFont(t)

	if f.ensureGroup(-1) {
		t.Error("ensureGroup(-1) = true")
	}
	if f.ensureGroup(f.Config().NumGroups()) {
		t.Error("ensureGroup(NumGroups) = true")
	}
	if f.GroupCount() != 0 {
		t.Errorf("GroupCount() = %d", f.GroupCount())
	}
}

func TestEnsureGroupTwice(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	f, _ := newTestFont(t, WithLogger(l))

	if !f.ensureGroup(0) {
		t.Fatal("ensureGroup(0) failed")
	}
	_, h := f.AtlasSize()

	if !f.ensureGroup(0) {
		t.Error("second ensureGroup(0) = false")
	}
	if _, h2 := f.AtlasSize(); h2 != h {
		t.Errorf("atlas grew on repeated init: %d -> %d", h, h2)
	}
	if !strings.Contains(buf.String(), "already initialised") {
		t.Error("expected debug note for repeated init")
	}
}

func TestPrewarm(t *testing.T) {
	f, _ := newTestFont(t)

	if n := f.Prewarm("Hello, Ωμέγα"); n != 2 {
		t.Errorf("Prewarm created %d groups, want 2", n)
	}
	if n := f.Prewarm("Hello"); n != 0 {
		t.Errorf("second Prewarm created %d groups, want 0", n)
	}
	if n := f.Prewarm("ok\xffé"); n != 0 {
		t.Errorf("Prewarm past malformed input created %d groups", n)
	}
	if f.GroupCount() != 2 {
		t.Errorf("GroupCount() = %d, want 2", f.GroupCount())
	}
}

func TestPrewarmRange(t *testing.T) {
	f, _ := newTestFontSize(t, 12, 1, 1)

	if n := f.PrewarmRange(0x20, 0x17F); n != 3 {
		t.Errorf("PrewarmRange created %d groups, want 3", n)
	}
	for i := range 3 {
		if _, ok := f.GroupOffset(i); !ok {
			t.Errorf("group %d missing", i)
		}
	}
	if n := f.PrewarmRange(0x7F, 0x20); n != 0 {
		t.Errorf("reversed range created %d groups", n)
	}
}

func TestAtlasDump(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.png")
	f, _ := newTestFont(t, WithAtlasDump(path))

	f.QueryGlyph(32, 'A')

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("atlas dump not written: %v", err)
	}
	defer file.Close()

	cfg, err := png.DecodeConfig(file)
	if err != nil {
		t.Fatalf("decode dump: %v", err)
	}
	w, h := f.AtlasSize()
	if cfg.Width != w || cfg.Height != h {
		t.Errorf("dump is %dx%d, atlas %dx%d", cfg.Width, cfg.Height, w, h)
	}
}

func TestWriteAtlasPNG(t *testing.T) {
	f, _ := newTestFont(t)

	var buf bytes.Buffer
	if err := f.WriteAtlasPNG(&buf); err == nil {
		t.Error("expected error for empty atlas")
	}

	f.QueryGlyph(32, 'A')
	buf.Reset()
	if err := f.WriteAtlasPNG(&buf); err != nil {
		t.Fatalf("WriteAtlasPNG() = %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	w, h := f.AtlasSize()
	if b := img.Bounds(); b.Dx() != w || b.Dy() != h {
		t.Errorf("PNG bounds %v, atlas %dx%d", b, w, h)
	}

	uninit, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := uninit.WriteAtlasPNG(&buf); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("WriteAtlasPNG() on new font = %v, want ErrNotInitialized", err)
	}
}

func near(a, b, eps float32) bool {
	d := a - b
	return d <= eps && d >= -eps
}

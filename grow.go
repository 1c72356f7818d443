package fontatlas

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"github.com/gogpu/fontatlas/text"
)

// grow bakes group index into a new band below the current atlas.
//
// The new group is packed into a scratch buffer at row H (the current
// atlas height), the existing H rows are read back from the texture into
// the top of the same buffer, and the merged image is uploaded as the new
// atlas of height H plus the tight height of the group.
func (f *Font) grow(index int) (*group, error) {
	cfg := f.cfg.atlas
	width, height := cfg.AtlasWidth, f.atlasHeight

	scratch := make([]byte, width*(height+cfg.MaxGroupHeight))

	pc, err := text.NewPackContext(scratch[width*height:], width, cfg.MaxGroupHeight, width, cfg.Padding)
	if err != nil {
		return nil, err
	}
	pc.SetOversampling(f.oversampleX, f.oversampleY)
	pc.SetSkipMissingCodepoints(true)

	first := rune(index * cfg.CharsPerGroup)
	chars, err := pc.PackRange(f.source, float64(f.pixelHeight), first, cfg.CharsPerGroup)
	if err != nil {
		return nil, err
	}

	groupHeight := 0
	for _, c := range chars {
		groupHeight = max(groupHeight, int(c.Y1))
	}

	if height > 0 {
		if err := f.texture.Download(scratch[:width*height]); err != nil {
			return nil, fmt.Errorf("fontatlas: read back atlas: %w", err)
		}
	}

	combined := height + groupHeight
	pix := scratch[:width*combined]
	if err := f.texture.Upload(width, combined, pix); err != nil {
		return nil, fmt.Errorf("fontatlas: upload atlas: %w", err)
	}
	// The texture now holds the group; keep the height in step with it
	// even if the mip chain cannot be rebuilt.
	f.atlasHeight = combined
	if err := f.texture.GenerateMipmaps(); err != nil {
		f.logger().Warn("fontatlas: generate mipmaps failed", "group", index, "err", err)
	}

	if f.cfg.dumpPath != "" && combined > 0 {
		if err := writeAtlasFile(f.cfg.dumpPath, width, combined, pix); err != nil {
			f.logger().Warn("fontatlas: atlas dump failed", "path", f.cfg.dumpPath, "err", err)
		}
	}

	return &group{
		chars:  chars,
		yBegin: height,
		height: groupHeight,
	}, nil
}

// WriteAtlasPNG reads the atlas back from the texture and writes it to w as
// a grayscale PNG.
func (f *Font) WriteAtlasPNG(w io.Writer) error {
	if f.texture == nil || !f.Initialized() {
		return ErrNotInitialized
	}
	width, height := f.AtlasSize()
	if height == 0 {
		return fmt.Errorf("fontatlas: atlas is empty")
	}

	pix := make([]byte, width*height)
	if err := f.texture.Download(pix); err != nil {
		return fmt.Errorf("fontatlas: read back atlas: %w", err)
	}
	return png.Encode(w, grayImage(width, height, pix))
}

// writeAtlasFile writes a width x height coverage buffer to path as PNG.
func writeAtlasFile(path string, width, height int, pix []byte) (err error) {
	// #nosec G304 -- dump path is provided by the user
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return png.Encode(file, grayImage(width, height, pix))
}

// grayImage wraps a tightly packed coverage buffer without copying.
func grayImage(width, height int, pix []byte) *image.Gray {
	return &image.Gray{
		Pix:    pix,
		Stride: width,
		Rect:   image.Rect(0, 0, width, height),
	}
}

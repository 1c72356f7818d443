// Command atlasdump bakes the glyph groups needed for a text sample and
// writes the resulting atlas as a grayscale PNG.
//
// Usage:
//
//	atlasdump -font DejaVuSans -size 18 -ox 2 -text "Hello, 世界" -out atlas.png
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/flopp/go-findfont"
	"github.com/gogpu/fontatlas"
	"github.com/gogpu/fontatlas/gpu"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	var (
		fontName = flag.String("font", "DejaVuSans.ttf", "font file path or installed font name")
		size     = flag.Float64("size", 18, "bake height in pixels")
		ox       = flag.Int("ox", 1, "horizontal oversampling")
		oy       = flag.Int("oy", 1, "vertical oversampling")
		sample   = flag.String("text", "The quick brown fox jumps over the lazy dog", "text to bake")
		output   = flag.String("out", "atlas.png", "output file")
		logFile  = flag.String("log", "", "write JSON logs to this file (rotated)")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	logger := newLogger(*logFile, *verbose)
	fontatlas.SetLogger(logger)

	path, err := resolveFont(*fontName)
	if err != nil {
		return fmt.Errorf("font %q not found: %w", *fontName, err)
	}

	dev := gpu.NewMemoryDevice()
	f, err := fontatlas.Load(path, float32(*size), *ox, *oy, fontatlas.WithDevice(dev))
	if err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn("close font", "err", err)
		}
	}()

	groups := f.Prewarm(*sample)
	width := f.MeasureText(float32(*size), *sample)
	aw, ah := f.AtlasSize()

	if err := writePNG(*output, f); err != nil {
		return fmt.Errorf("save atlas: %w", err)
	}

	log.Printf("%s: %d groups, text width %.1fpx, atlas %dx%d saved to %s\n",
		filepath.Base(path), groups, width, aw, ah, *output)
	return nil
}

// resolveFont returns name if it is an existing file, otherwise looks it up
// among the installed fonts.
func resolveFont(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}
	if filepath.Ext(name) == "" {
		name += ".ttf"
	}
	return findfont.Find(name)
}

// newLogger logs JSON to a rotated file when path is set, text to stderr
// otherwise.
func newLogger(path string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	if verbose {
		lvl = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if path == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	var w io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    16, // MB
		MaxBackups: 2,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func writePNG(path string, f *fontatlas.Font) (err error) {
	// #nosec G304 -- output path is provided by the user
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return f.WriteAtlasPNG(file)
}

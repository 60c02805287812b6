package img2ascii

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wbrown/img2ascii/imageutil"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// PreviewOptions controls how RenderPreview draws a canvas.
type PreviewOptions struct {
	// FontSize is the glyph size in points at 72 DPI.
	FontSize float64
	// Padding is the margin around the text in pixels.
	Padding int
	// Foreground and Background color the text and the page.
	Foreground color.Color
	Background color.Color
}

// DefaultPreviewOptions returns dark 7pt monospace text on a light page.
func DefaultPreviewOptions() PreviewOptions {
	return PreviewOptions{
		FontSize:   7,
		Padding:    10,
		Foreground: color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
		Background: color.RGBA{R: 0xf8, G: 0xf8, B: 0xf8, A: 0xff},
	}
}

var (
	monoOnce sync.Once
	monoFont *truetype.Font
	monoErr  error
)

// loadMonoFont parses the embedded Go Mono font once.
func loadMonoFont() (*truetype.Font, error) {
	monoOnce.Do(func() {
		monoFont, monoErr = freetype.ParseFont(gomono.TTF)
	})
	return monoFont, monoErr
}

// RenderPreview draws the rows of text into an image using a monospace
// font with a line height of one em, so the picture keeps the
// proportions the art was laid out for.
func RenderPreview(text string, opts PreviewOptions) (*image.RGBA, error) {
	ttf, err := loadMonoFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = DefaultPreviewOptions().FontSize
	}

	face := truetype.NewFace(ttf, &truetype.Options{
		Size:    opts.FontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	advance, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, fmt.Errorf("font has no glyph for 'M'")
	}
	metrics := face.Metrics()
	lineHeight := fixed.I(int(opts.FontSize + 0.5))

	lines := strings.Split(text, "\n")
	columns := 0
	for _, line := range lines {
		columns = max(columns, len(line))
	}

	width := 2*opts.Padding + (advance * fixed.Int26_6(columns)).Ceil()
	height := 2*opts.Padding + (lineHeight * fixed.Int26_6(len(lines))).Ceil()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)

	ctx := freetype.NewContext()
	ctx.SetDPI(72)
	ctx.SetFont(ttf)
	ctx.SetFontSize(opts.FontSize)
	ctx.SetClip(img.Bounds())
	ctx.SetDst(img)
	ctx.SetSrc(image.NewUniform(opts.Foreground))
	ctx.SetHinting(font.HintingFull)

	// Center the ascent within each line box
	baseline := (lineHeight + metrics.Ascent - metrics.Descent) / 2
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pt := fixed.Point26_6{
			X: fixed.I(opts.Padding),
			Y: fixed.I(opts.Padding) + lineHeight*fixed.Int26_6(i) + baseline,
		}
		if _, err := ctx.DrawString(line, pt); err != nil {
			return nil, fmt.Errorf("failed to draw line %d: %w", i, err)
		}
	}

	return img, nil
}

// SavePreview renders text with RenderPreview and writes it to path as
// PNG, JPEG or GIF depending on the extension.
func SavePreview(text, path string, opts PreviewOptions) error {
	img, err := RenderPreview(text, opts)
	if err != nil {
		return err
	}
	return imageutil.SaveImage(img, path)
}

// Package img2ascii converts raster images to ASCII art.
//
// A Converter resizes the image to a character grid, reduces it to
// luminance, boosts local contrast with CLAHE, optionally replaces it with
// a Canny edge map, maps every sample to a glyph of a 17 step ramp and
// centers the rows in a fixed box.
package img2ascii

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"

	"github.com/wbrown/img2ascii/imageutil"
)

const (
	// DefaultMaxWidth is the canvas width in columns.
	DefaultMaxWidth = 150
	// DefaultMaxHeight is the canvas height in rows.
	DefaultMaxHeight = 60
	// DefaultWidthScale stretches the grid horizontally to offset the
	// height of a character cell.
	DefaultWidthScale = 2.0
	// DefaultEdgeLow and DefaultEdgeHigh are the Canny hysteresis
	// thresholds.
	DefaultEdgeLow  = 100.0
	DefaultEdgeHigh = 200.0
	// DefaultOutputPath is where callers without a destination of their
	// own write the art.
	DefaultOutputPath = "ascii_art.txt"
)

// ErrEmptyImage is returned for a nil image or one with no pixels.
var ErrEmptyImage = errors.New("img2ascii: image is empty")

// Converter encapsulates the configuration of the conversion pipeline.
// It holds no per-conversion state and may be shared between goroutines.
type Converter struct {
	MaxWidth   int
	MaxHeight  int
	WidthScale float64
	// Interpolation is the resampling used to reach the grid size.
	Interpolation imageutil.Interpolation
	CLAHE         imageutil.CLAHEParams
	EdgeLow       float64
	EdgeHigh      float64

	backend Backend
	ramp    Ramp
	logger  *slog.Logger
}

// ConverterOption is a functional option for configuring a Converter.
type ConverterOption func(*Converter)

// NewConverter creates a Converter with the given options.
// Defaults: 150x60 canvas, width scale 2, area resampling, CLAHE clip 2.0
// over 8x8 tiles, Canny thresholds 100/200, the pure Go backend and the
// default ramp.
func NewConverter(opts ...ConverterOption) *Converter {
	c := &Converter{
		MaxWidth:   DefaultMaxWidth,
		MaxHeight:  DefaultMaxHeight,
		WidthScale: DefaultWidthScale,
		CLAHE:      imageutil.DefaultCLAHEParams(),
		EdgeLow:    DefaultEdgeLow,
		EdgeHigh:   DefaultEdgeHigh,

		backend: GoBackend{},
		ramp:    DefaultRamp,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithCanvasSize sets the canvas box in columns and rows.
func WithCanvasSize(width, height int) ConverterOption {
	return func(c *Converter) {
		c.MaxWidth = width
		c.MaxHeight = height
	}
}

// WithWidthScale sets the horizontal stretch applied to the grid.
func WithWidthScale(scale float64) ConverterOption {
	return func(c *Converter) {
		c.WidthScale = scale
	}
}

// WithInterpolation selects the resampling method of the resize stage.
func WithInterpolation(interp imageutil.Interpolation) ConverterOption {
	return func(c *Converter) {
		c.Interpolation = interp
	}
}

// WithCLAHE sets the contrast enhancement parameters.
func WithCLAHE(params imageutil.CLAHEParams) ConverterOption {
	return func(c *Converter) {
		c.CLAHE = params
	}
}

// WithEdgeThresholds sets the Canny hysteresis thresholds.
func WithEdgeThresholds(low, high float64) ConverterOption {
	return func(c *Converter) {
		c.EdgeLow = low
		c.EdgeHigh = high
	}
}

// WithBackend selects the implementation of the image stages.
func WithBackend(b Backend) ConverterOption {
	return func(c *Converter) {
		c.backend = b
	}
}

// WithRamp replaces the glyph ramp. Library callers only; the command
// line always uses DefaultRamp.
func WithRamp(r Ramp) ConverterOption {
	return func(c *Converter) {
		c.ramp = r
	}
}

// WithLogger sets the logger used for per-stage debug output.
func WithLogger(l *slog.Logger) ConverterOption {
	return func(c *Converter) {
		c.logger = l
	}
}

// Backend returns the backend the converter runs on.
func (c *Converter) Backend() Backend {
	return c.backend
}

// Convert renders img as ASCII art. With edgeDetection set the glyphs
// trace a Canny edge map instead of the contrast enhanced luminance.
// The same input always yields the same text.
func (c *Converter) Convert(img image.Image, edgeDetection bool) (string, error) {
	canvas, err := c.ConvertCanvas(img, edgeDetection)
	if err != nil {
		return "", err
	}
	return canvas.String(), nil
}

// ConvertCanvas is Convert without joining the rows.
func (c *Converter) ConvertCanvas(img image.Image, edgeDetection bool) (Canvas, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}

	src := imageutil.RGBAImageFromImage(img)
	width, height := GridSize(src.Width(), src.Height(), c.MaxWidth, c.MaxHeight, c.WidthScale)
	log := c.logger.With("backend", c.backend.Name())
	log.Debug("resizing",
		"src_width", src.Width(), "src_height", src.Height(),
		"width", width, "height", height, "interpolation", c.Interpolation)

	resized, err := c.backend.Resize(src, width, height, c.Interpolation)
	if err != nil {
		return nil, fmt.Errorf("resize: %w", err)
	}

	gray, err := c.backend.Grayscale(resized)
	if err != nil {
		return nil, fmt.Errorf("grayscale: %w", err)
	}

	enhanced, err := c.backend.Equalize(gray, c.CLAHE)
	if err != nil {
		return nil, fmt.Errorf("contrast: %w", err)
	}
	log.Debug("contrast enhanced",
		"clip_limit", c.CLAHE.ClipLimit, "tiles_x", c.CLAHE.TilesX, "tiles_y", c.CLAHE.TilesY)

	if edgeDetection {
		enhanced, err = c.backend.Edges(enhanced, c.EdgeLow, c.EdgeHigh)
		if err != nil {
			return nil, fmt.Errorf("edges: %w", err)
		}
		log.Debug("edges detected", "low", c.EdgeLow, "high", c.EdgeHigh)
	}

	canvas := Compose(c.ramp.MapGray(enhanced), c.MaxWidth, c.MaxHeight)
	log.Debug("canvas composed", "rows", len(canvas), "edges", edgeDetection)
	return canvas, nil
}

// Result is the outcome of ConvertToFile.
type Result struct {
	// Text is the rendered art, rows separated by newlines.
	Text string
	// Path is the file Text was written to.
	Path string
}

// ConvertToFile renders img like Convert and writes the text to path,
// replacing any previous content. The write is not atomic; concurrent
// conversions to one path leave whichever finished last.
func (c *Converter) ConvertToFile(img image.Image, edgeDetection bool, path string) (Result, error) {
	text, err := c.Convert(img, edgeDetection)
	if err != nil {
		return Result{}, err
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return Result{}, fmt.Errorf("failed to write ascii art: %w", err)
	}
	c.logger.Debug("ascii art written", "path", path, "bytes", len(text))

	return Result{Text: text, Path: path}, nil
}

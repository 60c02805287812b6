// Command img2ascii renders an image file as ASCII art, prints it and
// saves it to a text file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("img2ascii", pflag.ContinueOnError)
	fs.SetOutput(stderr)

	inputFile := fs.StringP("input", "i", "",
		"Path to the input image file (required)")
	outputFile := fs.StringP("output", "o", "",
		"Path of the text file to write (default from config, ascii_art.txt)")
	edges := fs.BoolP("edges", "e", false,
		"Render a Canny edge map instead of shaded luminance")
	previewFile := fs.StringP("preview", "p", "",
		"Also render the art to an image file (png, jpg or gif)")
	configFile := fs.StringP("config", "c", config.DefaultPath,
		"Path to the YAML configuration file")
	backendName := fs.StringP("backend", "b", "",
		fmt.Sprintf("Image backend: %v", img2ascii.BackendNames()))
	logLevel := fs.String("log-level", "",
		"Log level: debug, info, warn or error")
	quiet := fs.BoolP("quiet", "q", false,
		"Do not print the art to stdout")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *inputFile == "" && fs.NArg() > 0 {
		*inputFile = fs.Arg(0)
	}
	if *inputFile == "" {
		fmt.Fprintln(stderr, "Usage: img2ascii --input IMAGE [flags]")
		fs.PrintDefaults()
		return errors.New("please provide the image using the --input flag")
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if fs.Changed("output") {
		cfg.Output = *outputFile
	}
	if fs.Changed("preview") {
		cfg.Preview = *previewFile
	}
	if fs.Changed("backend") {
		cfg.Backend = *backendName
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.LogLevel)
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	interp, _ := imageutil.ParseInterpolation(cfg.Interpolation)
	backend, err := img2ascii.LookupBackend(cfg.Backend)
	if err != nil {
		return err
	}

	img, err := imageutil.LoadImage(*inputFile)
	if err != nil {
		return err
	}
	logger.Debug("image loaded", "path", *inputFile, "width", img.Width(), "height", img.Height())

	converter := img2ascii.NewConverter(
		img2ascii.WithCanvasSize(cfg.MaxWidth, cfg.MaxHeight),
		img2ascii.WithWidthScale(cfg.WidthScale),
		img2ascii.WithInterpolation(interp),
		img2ascii.WithCLAHE(imageutil.CLAHEParams{
			ClipLimit: cfg.ClipLimit,
			TilesX:    cfg.TileGrid,
			TilesY:    cfg.TileGrid,
		}),
		img2ascii.WithEdgeThresholds(cfg.EdgeLow, cfg.EdgeHigh),
		img2ascii.WithBackend(backend),
		img2ascii.WithLogger(logger),
	)

	result, err := converter.ConvertToFile(img.RGBA, *edges, cfg.Output)
	if err != nil {
		return err
	}

	if !*quiet {
		fmt.Fprintln(stdout, result.Text)
	}
	logger.Info("ascii art saved", "path", result.Path, "edges", *edges, "backend", backend.Name())

	if cfg.Preview != "" {
		opts := img2ascii.DefaultPreviewOptions()
		opts.FontSize = cfg.FontSize
		if err := img2ascii.SavePreview(result.Text, cfg.Preview, opts); err != nil {
			return fmt.Errorf("failed to save preview: %w", err)
		}
		logger.Info("preview saved", "path", cfg.Preview)
	}

	return nil
}

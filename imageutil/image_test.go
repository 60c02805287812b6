package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"golang.org/x/image/draw"
)

func TestNewRGBAImage(t *testing.T) {
	img := NewRGBAImage(100, 50)
	if img.Width() != 100 {
		t.Errorf("Expected width 100, got %d", img.Width())
	}
	if img.Height() != 50 {
		t.Errorf("Expected height 50, got %d", img.Height())
	}
}

func TestRGBAImageGetSetRGB(t *testing.T) {
	img := NewRGBAImage(10, 10)
	c := RGB{R: 100, G: 150, B: 200}
	img.SetRGB(5, 5, c)

	got := img.GetRGB(5, 5)
	if got != c {
		t.Errorf("Expected %v, got %v", c, got)
	}
}

func TestRGBAImageFromImageOffsetBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 20, 14, 22))
	src.SetRGBA(10, 20, color.RGBA{R: 9, G: 8, B: 7, A: 255})

	img := RGBAImageFromImage(src)
	if img.Width() != 4 || img.Height() != 2 {
		t.Fatalf("Expected 4x2, got %dx%d", img.Width(), img.Height())
	}
	if got := img.GetRGB(0, 0); got != (RGB{9, 8, 7}) {
		t.Errorf("Expected origin pixel {9 8 7}, got %v", got)
	}
}

func TestRGBAImageFromImageFlattensTransparency(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(1, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	img := RGBAImageFromImage(src)
	if got := img.GetRGB(0, 0); got != (RGB{255, 255, 255}) {
		t.Errorf("Transparent pixel should flatten to white, got %v", got)
	}
	if got := img.GetRGB(1, 0); got != (RGB{0, 0, 0}) {
		t.Errorf("Opaque black should stay black, got %v", got)
	}
}

func TestGrayImageGetSetGray(t *testing.T) {
	img := NewGrayImage(10, 10)
	img.SetGrayValue(5, 5, 128)

	if got := img.GetGray(5, 5); got != 128 {
		t.Errorf("Expected 128, got %d", got)
	}
	if got := img.GrayAt(5, 5).Y; got != 128 {
		t.Errorf("Expected GrayAt 128, got %d", got)
	}
}

func TestToGrayscale(t *testing.T) {
	tests := []struct {
		name   string
		c      RGB
		lo, hi uint8
	}{
		{"white", RGB{255, 255, 255}, 255, 255},
		{"black", RGB{0, 0, 0}, 0, 0},
		{"red", RGB{255, 0, 0}, 75, 77},
		{"green", RGB{0, 255, 0}, 149, 151},
		{"blue", RGB{0, 0, 255}, 28, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ToGrayscale(CreateSolidImage(3, 2, tt.c))
			for y := 0; y < 2; y++ {
				for x := 0; x < 3; x++ {
					v := gray.GetGray(x, y)
					if v < tt.lo || v > tt.hi {
						t.Errorf("Expected %d..%d at (%d,%d), got %d", tt.lo, tt.hi, x, y, v)
					}
				}
			}
		})
	}
}

func TestResize(t *testing.T) {
	img := CreateGradientImage(100, 100)

	resized := Resize(img, 50, 25, InterpolationArea)
	if resized.Width() != 50 || resized.Height() != 25 {
		t.Errorf("Expected 50x25, got %dx%d", resized.Width(), resized.Height())
	}

	resized = Resize(img, 200, 200, InterpolationLinear)
	if resized.Width() != 200 || resized.Height() != 200 {
		t.Errorf("Expected 200x200, got %dx%d", resized.Width(), resized.Height())
	}
}

func TestResizeAreaPreservesSolidColor(t *testing.T) {
	for _, c := range []RGB{{0, 0, 0}, {255, 255, 255}, {40, 90, 200}} {
		resized := Resize(CreateSolidImage(300, 200, c), 150, 50, InterpolationArea)
		for y := 0; y < resized.Height(); y++ {
			for x := 0; x < resized.Width(); x++ {
				if got := resized.GetRGB(x, y); got != c {
					t.Fatalf("Expected %v at (%d,%d), got %v", c, x, y, got)
				}
			}
		}
	}
}

func TestResizeAreaAverages(t *testing.T) {
	// Alternating black and white columns average to mid gray
	img := NewRGBAImage(64, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 64; x++ {
			if x%2 == 0 {
				img.SetRGB(x, y, RGB{255, 255, 255})
			} else {
				img.SetRGB(x, y, RGB{0, 0, 0})
			}
		}
	}

	resized := Resize(img, 8, 1, InterpolationArea)
	for x := 1; x < 7; x++ {
		v := resized.GetRGB(x, 0).R
		if v < 100 || v > 155 {
			t.Errorf("Expected ~128 at column %d, got %d", x, v)
		}
	}
}

func TestResizeAreaFractionalScale(t *testing.T) {
	// Source pixels straddling a destination boundary are split between
	// both destination pixels by the covered fraction.
	tests := []struct {
		row  []uint8
		want []uint8
	}{
		{[]uint8{0, 90, 240}, []uint8{30, 190}},
		{[]uint8{0, 60, 120, 180, 240}, []uint8{48, 192}},
		{[]uint8{0, 60, 120, 180}, []uint8{15, 90, 165}},
	}

	for _, tt := range tests {
		img := NewRGBAImage(len(tt.row), 1)
		for x, v := range tt.row {
			img.SetRGB(x, 0, RGB{v, v, v})
		}
		resized := Resize(img, len(tt.want), 1, InterpolationArea)
		for x, want := range tt.want {
			if got := resized.GetRGB(x, 0); got != (RGB{want, want, want}) {
				t.Errorf("%v: expected %d at column %d, got %v", tt.row, want, x, got)
			}
		}
	}
}

func TestResizeAreaNearlyOneToOne(t *testing.T) {
	// 151 -> 150 columns must blend neighbours, not skip one of them
	img := NewRGBAImage(151, 1)
	for x := 0; x < 151; x++ {
		if x%2 == 1 {
			img.SetRGB(x, 0, RGB{255, 255, 255})
		}
	}
	resized := Resize(img, 150, 1, InterpolationArea)
	mixed := 0
	for x := 0; x < 150; x++ {
		if v := resized.GetRGB(x, 0).R; v != 0 && v != 255 {
			mixed++
		}
	}
	if mixed < 100 {
		t.Errorf("Expected most columns to blend neighbours, got %d", mixed)
	}
}

func TestAreaAverageGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 3))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 20)
	}
	dst := image.NewGray(image.Rect(0, 0, 2, 2))
	AreaAverage.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	// (0 + 20*0.5 + 60*0.5 + 80*0.25) / 2.25
	if got := dst.GrayAt(0, 0).Y; got != 27 {
		t.Errorf("Expected 27, got %d", got)
	}
	// (80*0.25 + 100*0.5 + 140*0.5 + 160) / 2.25
	if got := dst.GrayAt(1, 1).Y; got != 133 {
		t.Errorf("Expected 133, got %d", got)
	}
}

func TestResizeInterpolations(t *testing.T) {
	img := CreateSolidImage(40, 40, RGB{77, 77, 77})
	for _, interp := range []Interpolation{InterpolationArea, InterpolationLinear, InterpolationNearest} {
		resized := Resize(img, 10, 5, interp)
		if resized.Width() != 10 || resized.Height() != 5 {
			t.Fatalf("%v: expected 10x5, got %dx%d", interp, resized.Width(), resized.Height())
		}
		if v := resized.GetRGB(3, 3); v != (RGB{77, 77, 77}) {
			t.Errorf("%v: expected 77, got %v", interp, v)
		}
	}
}

func TestParseInterpolation(t *testing.T) {
	for _, interp := range []Interpolation{InterpolationArea, InterpolationLinear, InterpolationNearest} {
		got, err := ParseInterpolation(interp.String())
		if err != nil || got != interp {
			t.Errorf("ParseInterpolation(%q) = %v, %v", interp.String(), got, err)
		}
	}
	if got, err := ParseInterpolation(""); err != nil || got != InterpolationArea {
		t.Errorf("Empty name should select area, got %v, %v", got, err)
	}
	if _, err := ParseInterpolation("cubic"); err == nil {
		t.Error("Expected error for unknown interpolation")
	}
}

func TestInterpolationString(t *testing.T) {
	if InterpolationArea.String() != "area" {
		t.Errorf("Expected area, got %s", InterpolationArea)
	}
	if Interpolation(42).String() != "unknown" {
		t.Errorf("Expected unknown, got %s", Interpolation(42))
	}
}

func TestConvolveGrayIdentity(t *testing.T) {
	gray := ToGrayscale(CreateGradientImage(10, 10))

	identity := NewKernel([][]float64{
		{0, 0, 0},
		{0, 1, 0},
		{0, 0, 0},
	})
	result := ConvolveGray(gray, identity)

	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if gray.GetGray(x, y) != result.GetGray(x, y) {
				t.Errorf("Identity kernel should preserve pixel at (%d,%d)", x, y)
			}
		}
	}
}

func TestLoadImage(t *testing.T) {
	tmpDir := t.TempDir()
	img := CreateColorBarsImage(64, 64)

	pngPath := filepath.Join(tmpDir, "test.png")
	if err := SaveImage(img.RGBA, pngPath); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}

	loaded, err := LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}

	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			if img.GetRGB(x, y) != loaded.GetRGB(x, y) {
				t.Fatalf("PNG round trip changed pixel (%d,%d)", x, y)
			}
		}
	}
}

func TestLoadImageMissing(t *testing.T) {
	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDecodeImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, CreateSolidImage(3, 4, RGB{1, 2, 3}).RGBA); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeImage(&buf)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}
	if img.Width() != 3 || img.Height() != 4 {
		t.Errorf("Expected 3x4, got %dx%d", img.Width(), img.Height())
	}

	if _, err := DecodeImage(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Expected error decoding garbage")
	}
}

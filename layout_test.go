package img2ascii

import (
	"strings"
	"testing"
)

func TestGridSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"landscape", 300, 200, 150, 50},
		{"portrait", 100, 200, 60, 60},
		{"square", 1000, 1000, 120, 60},
		{"small square", 10, 10, 20, 10},
		{"small landscape", 10, 5, 20, 5},
		{"near square landscape", 151, 150, 150, 74},
		{"very wide", 1000, 1, 150, 1},
		{"very tall", 1, 1000, 1, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := GridSize(tt.w, tt.h, DefaultMaxWidth, DefaultMaxHeight, DefaultWidthScale)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("GridSize(%d, %d) = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestGridSizeBounds(t *testing.T) {
	// Height may pass MaxHeight for near-square landscapes, but never the
	// width bound divided by the stretch.
	heightBound := int(DefaultMaxWidth / DefaultWidthScale)
	for w := 1; w <= 400; w += 7 {
		for h := 1; h <= 400; h += 9 {
			gw, gh := GridSize(w, h, DefaultMaxWidth, DefaultMaxHeight, DefaultWidthScale)
			if gw < 1 || gw > DefaultMaxWidth {
				t.Fatalf("%dx%d: width %d out of bounds", w, h, gw)
			}
			if gh < 1 || gh > heightBound {
				t.Fatalf("%dx%d: height %d out of bounds", w, h, gh)
			}
		}
	}
}

func TestCenterMatchesPaddingRule(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"ab", 5, "  ab "},
		{"abc", 6, " abc  "},
		{"ab", 6, "  ab  "},
		{"abc", 3, "abc"},
		{"abcdef", 4, "abcdef"},
		{"", 3, "   "},
	}
	for _, tt := range tests {
		if got := center(tt.s, tt.width); got != tt.want {
			t.Errorf("center(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}

func TestComposeCentersVertically(t *testing.T) {
	canvas := Compose([]string{"x", "y", "z"}, 4, 6)
	if len(canvas) != 6 {
		t.Fatalf("Expected 6 rows, got %d", len(canvas))
	}

	blank := "    "
	want := []string{blank, " x  ", " y  ", " z  ", blank, blank}
	for i := range want {
		if canvas[i] != want[i] {
			t.Errorf("Row %d = %q, want %q", i, canvas[i], want[i])
		}
	}
}

func TestComposeNeverCrops(t *testing.T) {
	rows := make([]string, 8)
	for i := range rows {
		rows[i] = strings.Repeat("#", 12)
	}

	canvas := Compose(rows, 10, 5)
	if len(canvas) != 8 {
		t.Errorf("Expected all 8 rows kept, got %d", len(canvas))
	}
	for i, row := range canvas {
		if len(row) != 12 {
			t.Errorf("Row %d should keep its 12 columns, got %d", i, len(row))
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := Canvas{"ab", "cd"}
	if c.String() != "ab\ncd" {
		t.Errorf("Expected %q, got %q", "ab\ncd", c.String())
	}
}

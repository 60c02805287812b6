package img2ascii

import (
	"errors"
	"strings"

	"github.com/wbrown/img2ascii/imageutil"
)

// DefaultRampChars lists the glyphs of the default ramp from darkest to
// lightest.
const DefaultRampChars = "MNBF@#S&%$*!;:,. "

// ErrEmptyRamp is returned by NewRamp for a ramp without glyphs.
var ErrEmptyRamp = errors.New("img2ascii: ramp has no glyphs")

// Ramp is an immutable sequence of single-byte glyphs ordered from the
// darkest looking to the lightest looking.
type Ramp struct {
	chars string
}

// DefaultRamp is the 17 glyph ramp used by Converter.
var DefaultRamp = Ramp{chars: DefaultRampChars}

// NewRamp builds a ramp from ASCII glyphs ordered dark to light.
func NewRamp(chars string) (Ramp, error) {
	if len(chars) == 0 {
		return Ramp{}, ErrEmptyRamp
	}
	return Ramp{chars: chars}, nil
}

// Len returns the number of glyphs in the ramp.
func (r Ramp) Len() int {
	return len(r.chars)
}

// String returns the glyphs in ramp order.
func (r Ramp) String() string {
	return r.chars
}

// Index returns the ramp position for brightness v, floor(v/256 * Len).
// The result is always in [0, Len) because v never reaches 256.
func (r Ramp) Index(v uint8) int {
	return int(v) * len(r.chars) / 256
}

// Char maps brightness v to its glyph.
func (r Ramp) Char(v uint8) byte {
	return r.chars[r.Index(v)]
}

// MapGray converts each row of a grayscale image to a line of glyphs.
func (r Ramp) MapGray(gray *imageutil.GrayImage) []string {
	width, height := gray.Width(), gray.Height()
	rows := make([]string, height)

	var sb strings.Builder
	for y := 0; y < height; y++ {
		sb.Reset()
		sb.Grow(width)
		for x := 0; x < width; x++ {
			sb.WriteByte(r.Char(gray.GetGray(x, y)))
		}
		rows[y] = sb.String()
	}
	return rows
}

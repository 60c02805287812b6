package img2ascii

import "strings"

// GridSize returns the character grid dimensions for a w x h image.
//
// The width is stretched by widthScale because a terminal cell is roughly
// twice as tall as it is wide. Landscape images are bounded by maxWidth
// and portrait or square images by maxHeight; the other dimension follows
// the stretched aspect ratio and is truncated. Both results are at least 1.
// w and h must be positive.
func GridSize(w, h, maxWidth, maxHeight int, widthScale float64) (width, height int) {
	aspect := float64(w) / float64(h)

	width = int(float64(min(maxWidth, w)) * widthScale)
	height = min(maxHeight, h)

	if aspect > 1 {
		width = min(width, maxWidth)
		height = int(float64(width) / (aspect * widthScale))
	} else {
		width = int(float64(height) * aspect * widthScale)
	}

	return max(width, 1), max(height, 1)
}

// Canvas is the centered block of ASCII rows produced by Compose.
type Canvas []string

// String joins the rows with newlines, without a trailing newline.
func (c Canvas) String() string {
	return strings.Join(c, "\n")
}

// Compose centers rows in a maxWidth x maxHeight box.
//
// Rows shorter than maxWidth are padded with spaces on both sides. Rows
// that are already wider keep their full length, and a grid taller than
// maxHeight keeps every row; Compose never crops. Blank rows of maxWidth
// spaces fill the vertical slack, with the extra row (if any) at the
// bottom.
func Compose(rows []string, maxWidth, maxHeight int) Canvas {
	pad := max(0, maxHeight-len(rows))
	top := pad / 2
	bottom := pad - top

	blank := strings.Repeat(" ", maxWidth)
	canvas := make(Canvas, 0, len(rows)+pad)
	for i := 0; i < top; i++ {
		canvas = append(canvas, blank)
	}
	for _, row := range rows {
		canvas = append(canvas, center(row, maxWidth))
	}
	for i := 0; i < bottom; i++ {
		canvas = append(canvas, blank)
	}
	return canvas
}

// center pads s with spaces to width. When the padding is odd the extra
// space goes left only if width is odd too, so rows of equal length
// always line up.
func center(s string, width int) string {
	pad := width - len(s)
	if pad <= 0 {
		return s
	}
	left := pad/2 + (pad & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", pad-left)
}

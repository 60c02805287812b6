package imageutil

// ToGrayscale converts an RGBA image to single-channel luminance using
// the BT.601 weights Y = 0.299*R + 0.587*G + 0.114*B, the same weighting
// OpenCV applies for COLOR_BGR2GRAY.
func ToGrayscale(img *RGBAImage) *GrayImage {
	width, height := img.Width(), img.Height()
	gray := NewGrayImage(width, height)

	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		out := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			r, g, b := row[x*4], row[x*4+1], row[x*4+2]
			out[x] = Luminance(r, g, b)
		}
	}

	return gray
}

// Luminance returns the rounded BT.601 luma of a single pixel.
func Luminance(r, g, b uint8) uint8 {
	// Integer math scaled by 1000
	lum := (299*int(r) + 587*int(g) + 114*int(b) + 500) / 1000
	if lum > 255 {
		lum = 255
	}
	return uint8(lum)
}

package imageutil

import "math"

const histSize = 256

// CLAHEParams configures contrast limited adaptive histogram equalization.
type CLAHEParams struct {
	// ClipLimit caps each histogram bin at ClipLimit times the mean bin
	// height. Zero or negative disables clipping.
	ClipLimit float64
	// TilesX and TilesY give the number of tiles the image is split into,
	// matching OpenCV's tileGridSize.
	TilesX, TilesY int
}

// DefaultCLAHEParams returns clip limit 2.0 over an 8x8 tile grid.
func DefaultCLAHEParams() CLAHEParams {
	return CLAHEParams{ClipLimit: 2.0, TilesX: 8, TilesY: 8}
}

// CLAHE applies contrast limited adaptive histogram equalization to a
// grayscale image. The result has the same dimensions as the input.
//
// Tile sizes are the image dimensions divided by the grid size, rounded
// up; samples past the right and bottom edges are taken from a
// reflect-101 border, as OpenCV does. Each tile gets its own equalization
// LUT and output pixels blend the four nearest LUTs bilinearly, which
// hides tile seams.
func CLAHE(gray *GrayImage, params CLAHEParams) *GrayImage {
	width, height := gray.Width(), gray.Height()
	dst := NewGrayImage(width, height)
	if width == 0 || height == 0 {
		return dst
	}

	tilesX, tilesY := params.TilesX, params.TilesY
	if tilesX < 1 {
		tilesX = 1
	}
	if tilesY < 1 {
		tilesY = 1
	}

	tileW := (width + tilesX - 1) / tilesX
	tileH := (height + tilesY - 1) / tilesY
	tileArea := tileW * tileH

	clipLimit := 0
	if params.ClipLimit > 0 {
		clipLimit = int(params.ClipLimit * float64(tileArea) / histSize)
		if clipLimit < 1 {
			clipLimit = 1
		}
	}

	luts := make([][histSize]uint8, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			var hist [histSize]int
			for y := ty * tileH; y < (ty+1)*tileH; y++ {
				sy := reflect101(y, height)
				row := gray.Pix[sy*gray.Stride:]
				for x := tx * tileW; x < (tx+1)*tileW; x++ {
					hist[row[reflect101(x, width)]]++
				}
			}
			if clipLimit > 0 {
				clipHistogram(&hist, clipLimit)
			}
			luts[ty*tilesX+tx] = equalizationLUT(&hist, tileArea)
		}
	}

	invTW := 1.0 / float64(tileW)
	invTH := 1.0 / float64(tileH)

	for y := 0; y < height; y++ {
		tyf := float64(y)*invTH - 0.5
		ty1 := int(math.Floor(tyf))
		ty2 := ty1 + 1
		ya := tyf - float64(ty1)
		ya1 := 1 - ya
		ty1 = clampInt(ty1, 0, tilesY-1)
		ty2 = clampInt(ty2, 0, tilesY-1)

		src := gray.Pix[y*gray.Stride:]
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < width; x++ {
			txf := float64(x)*invTW - 0.5
			tx1 := int(math.Floor(txf))
			tx2 := tx1 + 1
			xa := txf - float64(tx1)
			xa1 := 1 - xa
			tx1 = clampInt(tx1, 0, tilesX-1)
			tx2 = clampInt(tx2, 0, tilesX-1)

			v := src[x]
			top := float64(luts[ty1*tilesX+tx1][v])*xa1 + float64(luts[ty1*tilesX+tx2][v])*xa
			bottom := float64(luts[ty2*tilesX+tx1][v])*xa1 + float64(luts[ty2*tilesX+tx2][v])*xa
			out[x] = clampUint8(top*ya1 + bottom*ya)
		}
	}

	return dst
}

// clipHistogram caps every bin at limit and spreads the excess evenly
// over all bins. What does not divide evenly goes to every step-th bin
// starting at zero.
func clipHistogram(hist *[histSize]int, limit int) {
	clipped := 0
	for i := range hist {
		if hist[i] > limit {
			clipped += hist[i] - limit
			hist[i] = limit
		}
	}

	batch := clipped / histSize
	residual := clipped - batch*histSize
	for i := range hist {
		hist[i] += batch
	}

	if residual > 0 {
		step := histSize / residual
		if step < 1 {
			step = 1
		}
		for i := 0; i < histSize && residual > 0; i += step {
			hist[i]++
			residual--
		}
	}
}

// equalizationLUT maps each level to its scaled cumulative count.
func equalizationLUT(hist *[histSize]int, area int) [histSize]uint8 {
	var lut [histSize]uint8
	scale := float64(histSize-1) / float64(area)
	sum := 0
	for i := range hist {
		sum += hist[i]
		lut[i] = clampUint8(float64(sum) * scale)
	}
	return lut
}

// reflect101 maps p into [0, n) mirroring around the edge pixels without
// repeating them (gfedcb|abcdefgh|gfedcba).
func reflect101(p, n int) int {
	if n == 1 {
		return 0
	}
	for p < 0 || p >= n {
		if p < 0 {
			p = -p
		} else {
			p = 2*(n-1) - p
		}
	}
	return p
}

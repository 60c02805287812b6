package imageutil

import "math"

// Edge and NoEdge are the only values Canny writes to its output.
const (
	NoEdge uint8 = 0
	Edge   uint8 = 255
)

// CannyOptions tunes the edge detector. The zero value matches
// cv2.Canny with default arguments: no pre-blur, an L1 gradient
// magnitude (|gx| + |gy|) and Sobel derivatives over replicated borders.
type CannyOptions struct {
	// Blur smooths the input with a 5x5 Gaussian before differentiation.
	Blur bool
	// L2Gradient uses sqrt(gx^2 + gy^2) as the gradient magnitude.
	L2Gradient bool
}

// Canny performs Canny edge detection on a grayscale image with the
// default options. Gradients at or above highThreshold seed edges;
// gradients between the thresholds survive only when connected to a seed.
func Canny(gray *GrayImage, lowThreshold, highThreshold float64) *GrayImage {
	return CannyWithOptions(gray, lowThreshold, highThreshold, CannyOptions{})
}

// CannyWithOptions performs Canny edge detection. The result is a binary
// map with the input's dimensions holding only Edge and NoEdge.
func CannyWithOptions(gray *GrayImage, lowThreshold, highThreshold float64, opts CannyOptions) *GrayImage {
	width, height := gray.Width(), gray.Height()
	if lowThreshold > highThreshold {
		lowThreshold, highThreshold = highThreshold, lowThreshold
	}

	src := gray
	if opts.Blur {
		src = GaussianBlurGray(gray)
	}

	gx, gy := sobelGradients(src)

	magnitude := make([][]float64, height)
	direction := make([][]float64, height)
	for y := 0; y < height; y++ {
		magnitude[y] = make([]float64, width)
		direction[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if opts.L2Gradient {
				magnitude[y][x] = math.Sqrt(gx[y][x]*gx[y][x] + gy[y][x]*gy[y][x])
			} else {
				magnitude[y][x] = math.Abs(gx[y][x]) + math.Abs(gy[y][x])
			}
			direction[y][x] = math.Atan2(gy[y][x], gx[y][x])
		}
	}

	suppressed := nonMaxSuppression(magnitude, direction, width, height)
	strong, weak := doubleThreshold(suppressed, lowThreshold, highThreshold, width, height)
	return hysteresis(strong, weak, width, height)
}

// sobelGradients computes horizontal and vertical Sobel gradients.
func sobelGradients(img *GrayImage) (gx, gy [][]float64) {
	width, height := img.Width(), img.Height()

	gray := make([][]float64, height)
	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			gray[y][x] = float64(img.GetGray(x, y))
		}
	}

	return ConvolveGrayFloat(gray, sobelXKernel), ConvolveGrayFloat(gray, sobelYKernel)
}

// nonMaxSuppression keeps only pixels that are local maxima along the
// gradient direction. Neighbours outside the image count as zero, so
// border pixels can be edges. Ties on a flat ridge go to the pixel on the
// left or top side, which keeps step edges one pixel wide.
func nonMaxSuppression(magnitude, direction [][]float64, width, height int) [][]float64 {
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
	}

	at := func(x, y int) float64 {
		if x < 0 || y < 0 || x >= width || y >= height {
			return 0
		}
		return magnitude[y][x]
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mag := magnitude[y][x]
			if mag == 0 {
				continue
			}

			// Quantize to 0, 45, 90 or 135 degrees
			angle := direction[y][x] * 180.0 / math.Pi
			if angle < 0 {
				angle += 180
			}

			var keep bool
			switch {
			case angle < 22.5 || angle >= 157.5:
				keep = mag > at(x-1, y) && mag >= at(x+1, y)
			case angle < 67.5:
				keep = mag > at(x-1, y-1) && mag > at(x+1, y+1)
			case angle < 112.5:
				keep = mag > at(x, y-1) && mag >= at(x, y+1)
			default:
				keep = mag > at(x+1, y-1) && mag > at(x-1, y+1)
			}

			if keep {
				suppressed[y][x] = mag
			}
		}
	}

	return suppressed
}

// doubleThreshold classifies edges as strong or weak based on thresholds.
func doubleThreshold(suppressed [][]float64, low, high float64, width, height int) (strong, weak [][]bool) {
	strong = make([][]bool, height)
	weak = make([][]bool, height)

	for y := 0; y < height; y++ {
		strong[y] = make([]bool, width)
		weak[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val > high {
				strong[y][x] = true
			} else if val > low {
				weak[y][x] = true
			}
		}
	}

	return strong, weak
}

// hysteresis grows strong edges into 8-connected weak pixels. It uses an
// explicit stack instead of repeated full-image sweeps.
func hysteresis(strong, weak [][]bool, width, height int) *GrayImage {
	edges := NewGrayImage(width, height)

	type point struct{ x, y int }
	var stack []point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if strong[y][x] {
				edges.SetGrayValue(x, y, Edge)
				stack = append(stack, point{x, y})
			}
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.x+dx, p.y+dy
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				if weak[ny][nx] && edges.GetGray(nx, ny) == NoEdge {
					edges.SetGrayValue(nx, ny, Edge)
					stack = append(stack, point{nx, ny})
				}
			}
		}
	}

	return edges
}

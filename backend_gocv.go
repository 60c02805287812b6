//go:build gocv

package img2ascii

import (
	"errors"
	"fmt"
	"image"

	"github.com/wbrown/img2ascii/imageutil"
	"gocv.io/x/gocv"
)

// OpenCVBackendName selects CVBackend. It is only registered in builds
// with the gocv tag, which need OpenCV installed.
const OpenCVBackendName = "opencv"

var errEmptyMat = errors.New("img2ascii: opencv returned an empty image")

func init() {
	RegisterBackend(CVBackend{})
}

// CVBackend runs every stage through OpenCV: resize, COLOR_BGR2GRAY,
// CLAHE and Canny.
type CVBackend struct{}

func (CVBackend) Name() string { return OpenCVBackendName }

func (CVBackend) Resize(img *imageutil.RGBAImage, width, height int, interp imageutil.Interpolation) (*imageutil.RGBAImage, error) {
	src, err := gocv.ImageToMatRGB(img.RGBA)
	if err != nil {
		return nil, fmt.Errorf("opencv: convert image: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Resize(src, &dst, image.Pt(width, height), 0, 0, cvInterpolation(interp))
	if dst.Empty() {
		return nil, errEmptyMat
	}
	return matToRGBA(dst), nil
}

func (CVBackend) Grayscale(img *imageutil.RGBAImage) (*imageutil.GrayImage, error) {
	src, err := gocv.ImageToMatRGB(img.RGBA)
	if err != nil {
		return nil, fmt.Errorf("opencv: convert image: %w", err)
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.CvtColor(src, &dst, gocv.ColorBGRToGray)
	if dst.Empty() {
		return nil, errEmptyMat
	}
	return matToGray(dst), nil
}

func (CVBackend) Equalize(gray *imageutil.GrayImage, params imageutil.CLAHEParams) (*imageutil.GrayImage, error) {
	src := grayToMat(gray)
	defer src.Close()

	clahe := gocv.NewCLAHEWithParams(params.ClipLimit, image.Pt(params.TilesX, params.TilesY))
	defer clahe.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	clahe.Apply(src, &dst)
	if dst.Empty() {
		return nil, errEmptyMat
	}
	return matToGray(dst), nil
}

func (CVBackend) Edges(gray *imageutil.GrayImage, low, high float64) (*imageutil.GrayImage, error) {
	src := grayToMat(gray)
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Canny(src, &dst, float32(low), float32(high))
	if dst.Empty() {
		return nil, errEmptyMat
	}
	return matToGray(dst), nil
}

func cvInterpolation(interp imageutil.Interpolation) gocv.InterpolationFlags {
	switch interp {
	case imageutil.InterpolationLinear:
		return gocv.InterpolationLinear
	case imageutil.InterpolationNearest:
		return gocv.InterpolationNearestNeighbor
	default:
		return gocv.InterpolationArea
	}
}

// matToRGBA converts a BGR gocv.Mat to an RGBAImage.
func matToRGBA(mat gocv.Mat) *imageutil.RGBAImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewRGBAImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			vec := mat.GetVecbAt(y, x)
			img.SetRGB(x, y, imageutil.RGB{R: vec[2], G: vec[1], B: vec[0]})
		}
	}
	return img
}

// matToGray converts a single channel gocv.Mat to a GrayImage.
func matToGray(mat gocv.Mat) *imageutil.GrayImage {
	height, width := mat.Rows(), mat.Cols()
	img := imageutil.NewGrayImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGrayValue(x, y, mat.GetUCharAt(y, x))
		}
	}
	return img
}

// grayToMat copies a GrayImage into a new CV_8U gocv.Mat.
func grayToMat(img *imageutil.GrayImage) gocv.Mat {
	mat := gocv.NewMatWithSize(img.Height(), img.Width(), gocv.MatTypeCV8U)
	for y := 0; y < img.Height(); y++ {
		for x := 0; x < img.Width(); x++ {
			mat.SetUCharAt(y, x, img.GetGray(x, y))
		}
	}
	return mat
}

package img2ascii

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/wbrown/img2ascii/imageutil"
)

// ErrUnknownBackend is returned by LookupBackend for unregistered names.
var ErrUnknownBackend = errors.New("img2ascii: unknown backend")

// Backend implements the image stages of the conversion pipeline.
// Every method returns a new image and leaves its input untouched.
type Backend interface {
	// Name identifies the backend in configuration and logs.
	Name() string
	// Resize scales img to width x height.
	Resize(img *imageutil.RGBAImage, width, height int, interp imageutil.Interpolation) (*imageutil.RGBAImage, error)
	// Grayscale reduces img to BT.601 luminance.
	Grayscale(img *imageutil.RGBAImage) (*imageutil.GrayImage, error)
	// Equalize applies CLAHE.
	Equalize(gray *imageutil.GrayImage, params imageutil.CLAHEParams) (*imageutil.GrayImage, error)
	// Edges runs Canny and returns a 0/255 edge map.
	Edges(gray *imageutil.GrayImage, low, high float64) (*imageutil.GrayImage, error)
}

// DefaultBackendName is the pure Go backend, always available.
const DefaultBackendName = "go"

var (
	backendsMu sync.RWMutex
	backends   = map[string]Backend{}
)

func init() {
	RegisterBackend(GoBackend{})
}

// RegisterBackend makes b available to LookupBackend under b.Name().
// A later registration with the same name replaces the earlier one.
func RegisterBackend(b Backend) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[b.Name()] = b
}

// LookupBackend returns the backend registered under name. An empty name
// selects the default backend.
func LookupBackend(name string) (Backend, error) {
	if name == "" {
		name = DefaultBackendName
	}
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	b, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, name, backendNamesLocked())
	}
	return b, nil
}

// BackendNames lists the registered backends in sorted order.
func BackendNames() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	return backendNamesLocked()
}

func backendNamesLocked() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GoBackend runs every stage with the pure Go imageutil package.
type GoBackend struct {
	// Canny tunes edge detection; the zero value behaves like cv2.Canny.
	Canny imageutil.CannyOptions
}

func (GoBackend) Name() string { return DefaultBackendName }

func (GoBackend) Resize(img *imageutil.RGBAImage, width, height int, interp imageutil.Interpolation) (*imageutil.RGBAImage, error) {
	return imageutil.Resize(img, width, height, interp), nil
}

func (GoBackend) Grayscale(img *imageutil.RGBAImage) (*imageutil.GrayImage, error) {
	return imageutil.ToGrayscale(img), nil
}

func (GoBackend) Equalize(gray *imageutil.GrayImage, params imageutil.CLAHEParams) (*imageutil.GrayImage, error) {
	return imageutil.CLAHE(gray, params), nil
}

func (b GoBackend) Edges(gray *imageutil.GrayImage, low, high float64) (*imageutil.GrayImage, error) {
	return imageutil.CannyWithOptions(gray, low, high, b.Canny), nil
}

// Package galmask paints boolean masks over astronomical images, to
// exclude the pixels covered by foreground galaxies.
//
// Each galaxy in a catalog is an ellipse on the sky: a position, an
// angular diameter, an axis ratio and a position angle measured east of
// north. ComputeGalaxyMask works out which galaxies could touch the
// image, turns each one into a rotated ellipse of pixels, and ORs them
// all into one mask the size of the image.
package galmask

import(
	"errors"
	"fmt"

	"github.com/abworrall/galaxy-mask/pkg/emath"
	"github.com/abworrall/galaxy-mask/pkg/skyproj"
)

var(
	// The image's pixel/sky transform can't be inverted, so nothing can be masked
	ErrDegenerateGeometry = errors.New("degenerate image geometry")

	// A galaxy's position angle can't be carried into the tangent plane
	ErrOrientationUndefined = errors.New("orientation undefined")
)

// A SkyProjector converts between pixel and sky coordinates for one
// image. skyproj.TAN is the one we use for real.
type SkyProjector interface {
	PixelToSky(pix []emath.Vec2) ([]skyproj.SkyCoord, error)
	SkyToPixel(sky []skyproj.SkyCoord) ([]emath.Vec2, error)
	Separation(a, b skyproj.SkyCoord) float64 // degrees
	EffectivePixelScaleMatrix() emath.Mat2    // degrees per pixel
}

// An ImageFrame is the geometry of one image. The masker only reads it.
type ImageFrame struct {
	Name      string            // for logging
	Width     int
	Height    int
	Tangent   skyproj.SkyCoord  // sky position of the reference pixel
	Projector SkyProjector
}

// FrameFromTAN builds a frame from a projector that came from a FITS header.
func FrameFromTAN(name string, t *skyproj.TAN) ImageFrame {
	return ImageFrame{
		Name:      name,
		Width:     t.Width,
		Height:    t.Height,
		Tangent:   t.TangentPoint(),
		Projector: t,
	}
}

func (f ImageFrame)String() string {
	return fmt.Sprintf("Frame[%s %dx%d, tangent %s]", f.Name, f.Width, f.Height, f.Tangent)
}

func (f ImageFrame)Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("frame '%s' has size %dx%d: %w", f.Name, f.Width, f.Height, ErrDegenerateGeometry)
	}
	if f.Projector == nil {
		return fmt.Errorf("frame '%s' has no sky projector", f.Name)
	}
	return nil
}

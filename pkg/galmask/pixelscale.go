package galmask

import(
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/abworrall/galaxy-mask/pkg/emath"
)

// PixelScale summarises the image's linear pixel->sky transform.
type PixelScale struct {
	ArcsecPerPixel  float64
	PixelsPerDegree emath.Mat2 // inverse of the deg/pixel matrix; maps tangent plane offsets to pixel offsets
}

// ResolvePixelScale turns the effective deg/pixel matrix into a single
// arcsec/pixel figure (the mean of the row norms), which is only good
// near the tangent point, but that's all we ask of it. A singular
// matrix is fatal: ErrDegenerateGeometry.
func ResolvePixelScale(m emath.Mat2) (PixelScale, error) {
	cd := mat.NewDense(2, 2, []float64{m[0], m[1], m[2], m[3]})

	if det := mat.Det(cd); det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return PixelScale{}, fmt.Errorf("pixel scale matrix %s has det=%g: %w", m, det, ErrDegenerateGeometry)
	}

	var inv mat.Dense
	if err := inv.Inverse(cd); err != nil {
		return PixelScale{}, fmt.Errorf("pixel scale matrix %s: %v: %w", m, err, ErrDegenerateGeometry)
	}

	mean := 0.0
	for i:=0; i<2; i++ {
		mean += mat.Norm(cd.RowView(i), 2)
	}
	mean /= 2.0

	return PixelScale{
		ArcsecPerPixel:  mean * emath.ArcsecPerDegree,
		PixelsPerDegree: emath.Mat2{inv.At(0,0), inv.At(0,1), inv.At(1,0), inv.At(1,1)},
	}, nil
}

// MaskSize is the side, in pixels, of the square that holds a galaxy of
// the given angular diameter (degrees). Always odd, so there is a
// center pixel.
func (ps PixelScale)MaskSize(diamDeg float64) int {
	return emath.OddCeil(emath.ArcsecPerDegree * diamDeg / ps.ArcsecPerPixel)
}

package galmask

import(
	"fmt"
	"image"
	"math"

	"github.com/abworrall/galaxy-mask/pkg/emath"
)

// Pixel coordinates further out than this are treated as nowhere
// near the image (and keep the int conversions honest).
const maxPixelCoord = 1 << 30

// A Footprint is the square of pixels a galaxy's mask occupies: an
// odd-sided box of side 2*Half+1 centred on a whole pixel.
type Footprint struct {
	Center image.Point
	Half   int
}

// NewFootprint rounds the center to the nearest pixel. Centers that
// are NaN, or absurdly far away, come back with ok=false.
func NewFootprint(center emath.Vec2, maskSize int) (Footprint, bool) {
	for _, v := range center {
		if math.IsNaN(v) || math.Abs(v) > maxPixelCoord {
			return Footprint{}, false
		}
	}
	return Footprint{
		Center: image.Point{int(math.Round(center[0])), int(math.Round(center[1]))},
		Half:   (maskSize-1) / 2,
	}, true
}

func (fp Footprint)Size() int { return 2*fp.Half + 1 }

// Bounds is the box in image pixel coordinates, half-open as usual.
func (fp Footprint)Bounds() image.Rectangle {
	return image.Rect(fp.Center.X-fp.Half, fp.Center.Y-fp.Half, fp.Center.X+fp.Half+1, fp.Center.Y+fp.Half+1)
}

// Overlaps reports whether any of the box lands on a width x height image
func (fp Footprint)Overlaps(width, height int) bool {
	return fp.Bounds().Overlaps(image.Rect(0, 0, width, height))
}

func (fp Footprint)String() string {
	return fmt.Sprintf("Footprint[%v, %dx%d]", fp.Center, fp.Size(), fp.Size())
}

// An Ellipse is a galaxy's shape, in local mask pixels: a semi-major
// axis, an axis ratio, and the angle of the major axis (degrees, from
// the x axis towards the y axis).
type Ellipse struct {
	A        float64
	BA       float64
	AngleDeg float64
}

// insider returns a membership test for pixel offsets (dx,dy) from
// the center. The boundary counts as inside.
func (e Ellipse)insider() func(dx, dy float64) bool {
	a := e.A
	b := e.BA * e.A
	theta := emath.DegToRad(e.AngleDeg)
	cosT, sinT := math.Cos(theta), math.Sin(theta)

	if a == 0 {
		return func(dx, dy float64) bool { return dx == 0 && dy == 0 }
	}

	// Circles don't care about the angle, and shouldn't pick up rounding from it
	if b == a {
		return func(dx, dy float64) bool { return dx*dx + dy*dy <= a*a }
	}

	return func(dx, dy float64) bool {
		u := (dx*cosT + dy*sinT) / a
		v := (dy*cosT - dx*sinT) / b
		return u*u + v*v <= 1.0
	}
}

// RasterizeEllipse builds the full local mask for a footprint: a
// (2*half+1) square grid with the ellipse centred at (half,half) and
// semi-major axis half.
func RasterizeEllipse(half int, ba, angleDeg float64) emath.BoolGrid {
	side := 2*half + 1
	return rasterizeWindow(half, ba, angleDeg, image.Rect(0, 0, side, side))
}

// rasterizeWindow evaluates just part of the local mask; cell (0,0) of
// the result is local pixel win.Min. Big galaxies hanging off the edge
// of an image only need the bit that lands on it.
func rasterizeWindow(half int, ba, angleDeg float64, win image.Rectangle) emath.BoolGrid {
	inside := Ellipse{A: float64(half), BA: ba, AngleDeg: angleDeg}.insider()
	g := emath.NewBoolGrid(win.Dx(), win.Dy())

	for y:=0; y<win.Dy(); y++ {
		dy := float64(win.Min.Y + y - half)
		for x:=0; x<win.Dx(); x++ {
			dx := float64(win.Min.X + x - half)
			if inside(dx, dy) {
				g.Set(x, y, true)
			}
		}
	}
	return g
}

// Composite ORs `local` into `out`, with local's cell (0,0) landing on
// out's pixel `origin`. The two grids are intersected as half-open
// ranges on each axis, so nothing is ever written outside either.
// Returns the region of `out` that was touched.
func Composite(out *emath.BoolGrid, local *emath.BoolGrid, origin image.Point) image.Rectangle {
	placed := local.Bounds().Add(origin)
	r := placed.Intersect(out.Bounds())
	if r.Empty() {
		return image.Rectangle{}
	}
	out.OrRegion(r, local, r.Min.Sub(origin))
	return r
}

// PaintEllipse rasterizes a galaxy's ellipse and ORs it into the mask,
// clipped to the image. Only the part of the footprint on the image is
// ever evaluated. Returns the region of the mask that was touched.
func PaintEllipse(out *emath.BoolGrid, fp Footprint, ba, angleDeg float64) image.Rectangle {
	origin := fp.Bounds().Min
	win := fp.Bounds().Intersect(out.Bounds()).Sub(origin) // in local coords
	if win.Empty() {
		return image.Rectangle{}
	}

	local := rasterizeWindow(fp.Half, ba, angleDeg, win)
	return Composite(out, &local, origin.Add(win.Min))
}

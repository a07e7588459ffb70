// Package skyproj maps between image pixels and positions on the
// celestial sphere, for images carrying a FITS world coordinate system.
//
// Only the gnomonic (TAN) projection is implemented; that is what
// survey pipelines put in the headers of the images we mask.
package skyproj

import(
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// A SkyCoord is a position on the sky, in degrees (ICRS).
type SkyCoord struct {
	RA  float64
	Dec float64
}

func (c SkyCoord)String() string {
	return fmt.Sprintf("(ra=%.6f, dec=%+.6f)", c.RA, c.Dec)
}

func (c SkyCoord)LatLng() s2.LatLng { return s2.LatLngFromDegrees(c.Dec, c.RA) }

// Separation returns the great-circle distance between two positions, in degrees.
func Separation(a, b SkyCoord) float64 {
	return a.LatLng().Distance(b.LatLng()).Degrees()
}

// normalizeRA wraps an RA into [0,360)
func normalizeRA(ra float64) float64 {
	ra = math.Mod(ra, 360.0)
	if ra < 0 {
		ra += 360.0
	}
	return ra
}

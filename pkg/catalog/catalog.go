// Package catalog holds the galaxy catalogs that masks are painted from.
package catalog

import(
	"fmt"

	"github.com/abworrall/galaxy-mask/pkg/skyproj"
)

// NoPositionAngle is what LEDA puts in the PA column when there isn't one.
const NoPositionAngle = -999.0

// An Entry is one galaxy.
type Entry struct {
	RA    float64  // degrees
	Dec   float64  // degrees
	Theta float64  // position angle, degrees east of north, [0,180)
	Diam  float64  // angular diameter, degrees
	BA    float64  // minor/major axis ratio, (0,1]; 1 is circular
}

func (e Entry)Sky() skyproj.SkyCoord { return skyproj.SkyCoord{RA: e.RA, Dec: e.Dec} }

func (e Entry)String() string {
	return fmt.Sprintf("Galaxy[%s, pa=%5.1f, diam=%6.1f\", ba=%4.2f]", e.Sky(), e.Theta, e.Diam*3600, e.BA)
}

// A Catalog is an ordered list of entries. Position in the list is the
// only identity an entry has.
type Catalog []Entry

// Sanitize rewrites the sentinel values into something the masker can
// use directly: missing axis ratios become circular, and entries with
// no position angle become circular with PA zero.
func (c Catalog)Sanitize() {
	for i := range c {
		if c[i].BA <= 0 {
			c[i].BA = 1.0
		}
		if c[i].Theta == NoPositionAngle {
			c[i].BA = 1.0
			c[i].Theta = 0.0
		}
	}
}

func (c Catalog)String() string {
	str := fmt.Sprintf("Catalog[%d entries\n", len(c))
	for i, e := range c {
		if i == 5 {
			str += "  ...\n"
			break
		}
		str += fmt.Sprintf("  %s\n", e)
	}
	return str + "]"
}

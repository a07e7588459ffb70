package galmask

import(
	"math"
	"testing"

	"github.com/abworrall/galaxy-mask/pkg/catalog"
	"github.com/abworrall/galaxy-mask/pkg/emath"
	"github.com/abworrall/galaxy-mask/pkg/skyproj"
)

// testFrame is a 100x100 image at 1 arcsec/pixel, with the tangent
// point on pixel (50,50), north up and east left, then rotated by
// rotDeg.
func testFrame(t *testing.T, ra, dec, rotDeg float64) ImageFrame {
	t.Helper()
	s := 1.0 / 3600
	c, sn := math.Cos(emath.DegToRad(rotDeg)), math.Sin(emath.DegToRad(rotDeg))
	h := skyproj.Header{
		"NAXIS1": 100, "NAXIS2": 100,
		"CTYPE1": "RA---TAN", "CTYPE2": "DEC--TAN",
		"CRVAL1": ra, "CRVAL2": dec,
		"CRPIX1": 51.0, "CRPIX2": 51.0,
		"CD1_1": -s * c, "CD1_2": s * sn,
		"CD2_1": s * sn, "CD2_2": s * c,
	}
	tan, err := skyproj.Open(h)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return FrameFromTAN(t.Name(), tan)
}

// entryAt puts a galaxy on the sky wherever pixel (x,y) of the frame is.
func entryAt(t *testing.T, f ImageFrame, x, y, theta, diam, ba float64) catalog.Entry {
	t.Helper()
	sky, err := f.Projector.PixelToSky([]emath.Vec2{{x, y}})
	if err != nil {
		t.Fatal(err)
	}
	return catalog.Entry{RA: sky[0].RA, Dec: sky[0].Dec, Theta: theta, Diam: diam, BA: ba}
}

func mustMask(t *testing.T, f ImageFrame, cat catalog.Catalog) (*emath.BoolGrid, Report) {
	t.Helper()
	mask, rep, err := ComputeGalaxyMask(f, cat, Options{})
	if err != nil {
		t.Fatalf("ComputeGalaxyMask: %v", err)
	}
	if mask.Dx() != f.Width || mask.Dy() != f.Height {
		t.Fatalf("mask is %dx%d, frame is %dx%d", mask.Dx(), mask.Dy(), f.Width, f.Height)
	}
	return mask, rep
}

// A little crowd of galaxies, some overlapping, some hanging off the edges
func testCatalog(t *testing.T, f ImageFrame) catalog.Catalog {
	return catalog.Catalog{
		entryAt(t, f, 50, 50, 0, 0.01, 0.5),
		entryAt(t, f, 40, 45, 60, 0.008, 0.3),
		entryAt(t, f, 95, 10, 120, 0.006, 0.7),
		entryAt(t, f, -5, 70, 10, 0.01, 0.4),
		entryAt(t, f, 80, 85, 179, 0.004, 1.0),
		entryAt(t, f, 20, 20, 45, 0.0001, 0.5),
		entryAt(t, f, 60, 102, 90, 0.003, 0.6),
	}
}

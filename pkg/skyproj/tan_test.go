package skyproj

import(
	"errors"
	"math"
	"testing"

	"github.com/abworrall/galaxy-mask/pkg/emath"
)

func testHeader() Header {
	return Header{
		"NAXIS1": 2046, "NAXIS2": 4094,
		"CTYPE1": "RA---TAN", "CTYPE2": "DEC--TAN",
		"CRVAL1": 150.25, "CRVAL2": -12.5,
		"CRPIX1": 1023.5, "CRPIX2": 2047.5,
		"CD1_1": -7.28e-05, "CD1_2": 1.2e-07,
		"CD2_1": -1.1e-07, "CD2_2": 7.28e-05,
	}
}

func TestOpenReadsGeometry(t *testing.T) {
	tan, err := Open(testHeader())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if tan.Width != 2046 || tan.Height != 4094 {
		t.Errorf("bad size %dx%d", tan.Width, tan.Height)
	}
	if len(tan.Warnings()) != 0 {
		t.Errorf("unexpected warnings %v", tan.Warnings())
	}
	if got := tan.EffectivePixelScaleMatrix(); got != (emath.Mat2{-7.28e-05, 1.2e-07, -1.1e-07, 7.28e-05}) {
		t.Errorf("unexpected CD %s", got)
	}
}

func TestReferencePixelIsTangentPoint(t *testing.T) {
	tan, err := Open(testHeader())
	if err != nil {
		t.Fatal(err)
	}
	sky, _ := tan.PixelToSky([]emath.Vec2{{1022.5, 2046.5}})
	if Separation(sky[0], tan.TangentPoint()) > 1e-10 {
		t.Errorf("reference pixel maps to %s, not %s", sky[0], tan.TangentPoint())
	}
}

func TestPixelSkyRoundTrip(t *testing.T) {
	tan, err := Open(testHeader())
	if err != nil {
		t.Fatal(err)
	}

	pix := []emath.Vec2{{0, 0}, {2045, 0}, {0, 4093}, {2045, 4093}, {300.25, 1777.75}}
	sky, _ := tan.PixelToSky(pix)
	back, _ := tan.SkyToPixel(sky)

	for i := range pix {
		if math.Abs(back[i][0]-pix[i][0]) > 1e-6 || math.Abs(back[i][1]-pix[i][1]) > 1e-6 {
			t.Errorf("pixel %s came back as %s", pix[i], back[i])
		}
	}
}

func TestNorthIsUpEastIsLeft(t *testing.T) {
	h := Header{
		"NAXIS1": 100, "NAXIS2": 100,
		"CRVAL1": 10.0, "CRVAL2": 0.0,
		"CRPIX1": 51.0, "CRPIX2": 51.0,
		"CD1_1": -1.0 / 3600, "CD2_2": 1.0 / 3600,
	}
	tan, err := Open(h)
	if err != nil {
		t.Fatal(err)
	}

	pix, _ := tan.SkyToPixel([]SkyCoord{{10, 10.0 / 3600}, {10 + 10.0/3600, 0}})
	if math.Abs(pix[0][0]-50) > 1e-6 || math.Abs(pix[0][1]-60) > 1e-6 {
		t.Errorf("10 arcsec north should be (50,60), got %s", pix[0])
	}
	if math.Abs(pix[1][0]-40) > 1e-6 || math.Abs(pix[1][1]-50) > 1e-6 {
		t.Errorf("10 arcsec east should be (40,50), got %s", pix[1])
	}
}

func TestFarHemisphereIsNaN(t *testing.T) {
	tan, err := Open(testHeader())
	if err != nil {
		t.Fatal(err)
	}
	pix, err := tan.SkyToPixel([]SkyCoord{{330.25, 12.5}})
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(pix[0][0]) || !math.IsNaN(pix[0][1]) {
		t.Errorf("antipode should not project, got %s", pix[0])
	}
}

func TestPoleTangentPoint(t *testing.T) {
	h := Header{
		"NAXIS1": 200, "NAXIS2": 200,
		"CRVAL1": 0.0, "CRVAL2": 90.0,
		"CRPIX1": 100.5, "CRPIX2": 100.5,
		"CDELT1": -0.001, "CDELT2": 0.001,
	}
	tan, err := Open(h)
	if err != nil {
		t.Fatal(err)
	}
	pix := []emath.Vec2{{0, 0}, {199, 199}, {50, 150}}
	sky, _ := tan.PixelToSky(pix)
	back, _ := tan.SkyToPixel(sky)
	for i := range pix {
		if math.Abs(back[i][0]-pix[i][0]) > 1e-6 || math.Abs(back[i][1]-pix[i][1]) > 1e-6 {
			t.Errorf("pixel %s came back as %s", pix[i], back[i])
		}
	}
}

func TestCDELTWithCROTA(t *testing.T) {
	h := Header{
		"NAXIS1": 10, "NAXIS2": 10,
		"CRVAL1": 1.0, "CRVAL2": 2.0,
		"CRPIX1": 5.0, "CRPIX2": 5.0,
		"CDELT1": -0.002, "CDELT2": 0.001,
		"CROTA2": 30.0,
	}
	tan, err := Open(h)
	if err != nil {
		t.Fatal(err)
	}
	rho := emath.DegToRad(30)
	want := emath.Mat2{
		-0.002 * math.Cos(rho), -0.001 * math.Sin(rho),
		-0.002 * math.Sin(rho), 0.001 * math.Cos(rho),
	}
	got := tan.EffectivePixelScaleMatrix()
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-15 {
			t.Fatalf("CROTA2 matrix %s, want %s", got, want)
		}
	}
}

func TestWarningsAreCollectedNotFatal(t *testing.T) {
	h := testHeader()
	h["CTYPE1"] = "RA---TAN-SIP"
	h["CTYPE2"] = "DEC--ZEA"
	h["CDELT1"] = 1.0
	h["RADESYS"] = "GAPPT   "

	tan, err := Open(h)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if n := len(tan.Warnings()); n != 4 {
		t.Errorf("expected 4 warnings, got %d: %v", n, tan.Warnings())
	}

	// A fresh header shares nothing with the last one
	clean, _ := Open(testHeader())
	if len(clean.Warnings()) != 0 {
		t.Errorf("warnings leaked between projectors: %v", clean.Warnings())
	}
}

func TestOpenErrors(t *testing.T) {
	missing := testHeader()
	delete(missing, "CRVAL2")
	if _, err := Open(missing); !errors.Is(err, ErrMissingKeyword) {
		t.Errorf("expected ErrMissingKeyword, got %v", err)
	}

	nolinear := testHeader()
	for _, k := range []string{"CD1_1", "CD1_2", "CD2_1", "CD2_2"} {
		delete(nolinear, k)
	}
	if _, err := Open(nolinear); !errors.Is(err, ErrMissingKeyword) {
		t.Errorf("expected ErrMissingKeyword, got %v", err)
	}

	singular := testHeader()
	singular["CD1_1"], singular["CD1_2"] = 0.5, 1.0
	singular["CD2_1"], singular["CD2_2"] = 1.0, 2.0
	if _, err := Open(singular); !errors.Is(err, ErrSingular) {
		t.Errorf("expected ErrSingular, got %v", err)
	}
}

func TestSeparation(t *testing.T) {
	tests := []struct {
		a, b SkyCoord
		want float64
	}{
		{SkyCoord{10, 0}, SkyCoord{10, 0}, 0},
		{SkyCoord{10, 0}, SkyCoord{11, 0}, 1},
		{SkyCoord{0, 89}, SkyCoord{180, 89}, 2},
		{SkyCoord{359.5, 0}, SkyCoord{0.5, 0}, 1},
		{SkyCoord{0, 90}, SkyCoord{0, -90}, 180},
	}
	for _, tt := range tests {
		if got := Separation(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Separation(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

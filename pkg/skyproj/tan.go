package skyproj

import(
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/abworrall/galaxy-mask/pkg/emath"
)

var(
	ErrMissingKeyword = errors.New("missing WCS keyword")
	ErrSingular       = errors.New("singular pixel transform")
)

// TAN is a gnomonic projection about a tangent point, as described by
// the CRVALn, CRPIXn and CDi_j (or PCi_j+CDELTn, or CDELTn+CROTA2)
// header keywords. Pixel coordinates are zero-based; FITS keywords
// are one-based, we take care of the difference.
//
// SIP distortion terms are ignored.
type TAN struct {
	Tangent    SkyCoord
	Width      int
	Height     int

	cd         emath.Mat2  // degrees per pixel
	pixToWorld emath.Aff3  // pixel -> intermediate world coords (degrees)
	worldToPix emath.Aff3

	warnings []string
}

// Open builds a TAN projector from a header. Problems that stop us
// projecting at all are errors; things we can shrug off (odd CTYPEs,
// redundant keywords, distortion terms we ignore) are collected as
// warnings, and never leave this object.
func Open(h Header) (*TAN, error) {
	wc := warningCollector{}
	t := &TAN{}

	if err := t.load(h, &wc); err != nil {
		return nil, err
	}

	t.warnings = wc.Messages()
	return t, nil
}

func (t *TAN)load(h Header, wc *warningCollector) error {
	var ok bool

	if t.Width, ok = h.Int("NAXIS1"); !ok {
		return fmt.Errorf("NAXIS1: %w", ErrMissingKeyword)
	}
	if t.Height, ok = h.Int("NAXIS2"); !ok {
		return fmt.Errorf("NAXIS2: %w", ErrMissingKeyword)
	}
	if t.Tangent.RA, ok = h.Float("CRVAL1"); !ok {
		return fmt.Errorf("CRVAL1: %w", ErrMissingKeyword)
	}
	if t.Tangent.Dec, ok = h.Float("CRVAL2"); !ok {
		return fmt.Errorf("CRVAL2: %w", ErrMissingKeyword)
	}
	crpix1, ok1 := h.Float("CRPIX1")
	crpix2, ok2 := h.Float("CRPIX2")
	if !ok1 || !ok2 {
		return fmt.Errorf("CRPIX1/CRPIX2: %w", ErrMissingKeyword)
	}

	checkCTypes(h, wc)
	if sys, ok := h.Text("RADESYS"); ok && sys != "ICRS" && sys != "FK5" {
		wc.Warnf("RADESYS '%s' treated as ICRS", sys)
	}

	cd, err := linearTransform(h, wc)
	if err != nil {
		return err
	}
	t.cd = cd

	t.pixToWorld = emath.LinearAff3(cd).Translate(1-crpix1, 1-crpix2)
	if t.worldToPix, err = t.pixToWorld.Invert(); err != nil {
		return fmt.Errorf("%v: %w", err, ErrSingular)
	}

	return nil
}

func checkCTypes(h Header, wc *warningCollector) {
	for i, want := range []string{"RA---TAN", "DEC--TAN"} {
		key := fmt.Sprintf("CTYPE%d", i+1)
		ctype, ok := h.Text(key)
		switch {
		case !ok:
			wc.Warnf("%s missing, assuming %s", key, want)
		case strings.HasPrefix(ctype, want) && strings.HasSuffix(ctype, "-SIP"):
			wc.Warnf("%s is '%s', SIP distortion ignored", key, ctype)
		case !strings.HasPrefix(ctype, want):
			wc.Warnf("%s is '%s', projecting as %s anyway", key, ctype, want)
		}
	}
}

// linearTransform works out the effective CD matrix, in degrees per pixel.
func linearTransform(h Header, wc *warningCollector) (emath.Mat2, error) {
	cdKeys := []string{"CD1_1", "CD1_2", "CD2_1", "CD2_2"}
	pcKeys := []string{"PC1_1", "PC1_2", "PC2_1", "PC2_2"}

	anyOf := func(keys []string) bool {
		for _, k := range keys {
			if h.Has(k) { return true }
		}
		return false
	}
	// Missing off-diagonal terms default to zero, missing diagonal ones to one (for PC)
	matrixFrom := func(keys []string, diag float64) emath.Mat2 {
		m := emath.Mat2{diag, 0, 0, diag}
		for i, k := range keys {
			if v, ok := h.Float(k); ok {
				m[i] = v
			}
		}
		return m
	}

	cdelt1, hasCdelt1 := h.Float("CDELT1")
	cdelt2, hasCdelt2 := h.Float("CDELT2")

	switch {
	case anyOf(cdKeys):
		if anyOf(pcKeys) || hasCdelt1 || hasCdelt2 {
			wc.Warnf("CDi_j present alongside PCi_j/CDELTn; using CDi_j")
		}
		return matrixFrom(cdKeys, 0), nil

	case hasCdelt1 && hasCdelt2:
		pc := matrixFrom(pcKeys, 1)
		if !anyOf(pcKeys) {
			if crota, ok := h.Float("CROTA2"); ok {
				rho := emath.DegToRad(crota)
				// CDELT scales rows, so the ratio folds into the rotation terms
				pc = emath.Mat2{
					math.Cos(rho), -math.Sin(rho) * cdelt2 / cdelt1,
					math.Sin(rho) * cdelt1 / cdelt2, math.Cos(rho),
				}
			}
		}
		return emath.Mat2{cdelt1, 0, 0, cdelt2}.Mult(pc), nil
	}

	return emath.Mat2{}, fmt.Errorf("no CDi_j or CDELTn: %w", ErrMissingKeyword)
}

// Warnings returns the non-fatal complaints made while reading the header.
func (t *TAN)Warnings() []string { return append([]string{}, t.warnings...) }

func (t *TAN)TangentPoint() SkyCoord { return t.Tangent }

// EffectivePixelScaleMatrix is the CD matrix, mapping a pixel offset to
// an offset in the tangent plane, in degrees.
func (t *TAN)EffectivePixelScaleMatrix() emath.Mat2 { return t.cd }

func (t *TAN)Separation(a, b SkyCoord) float64 { return Separation(a, b) }

// PixelToSky deprojects zero-based pixel coordinates.
func (t *TAN)PixelToSky(pix []emath.Vec2) ([]SkyCoord, error) {
	ret := make([]SkyCoord, len(pix))
	for i, p := range pix {
		ret[i] = t.deproject(t.pixToWorld.Apply(p))
	}
	return ret, nil
}

// SkyToPixel projects sky positions into zero-based pixel
// coordinates. Positions 90 degrees or more from the tangent point
// have no projection, and come back as NaN.
func (t *TAN)SkyToPixel(sky []SkyCoord) ([]emath.Vec2, error) {
	ret := make([]emath.Vec2, len(sky))
	for i, c := range sky {
		w, ok := t.project(c)
		if !ok {
			ret[i] = emath.Vec2{math.NaN(), math.NaN()}
			continue
		}
		ret[i] = t.worldToPix.Apply(w)
	}
	return ret, nil
}

// deproject maps intermediate world coords (xi east, eta north, in
// degrees) back onto the sphere.
func (t *TAN)deproject(w emath.Vec2) SkyCoord {
	xi := emath.DegToRad(w[0])
	eta := emath.DegToRad(w[1])
	ra0 := emath.DegToRad(t.Tangent.RA)
	dec0 := emath.DegToRad(t.Tangent.Dec)

	den := math.Cos(dec0) - eta*math.Sin(dec0)
	ra := ra0 + math.Atan2(xi, den)
	dec := math.Atan2(math.Sin(dec0) + eta*math.Cos(dec0), math.Hypot(xi, den))

	return SkyCoord{RA: normalizeRA(emath.RadToDeg(ra)), Dec: emath.RadToDeg(dec)}
}

func (t *TAN)project(c SkyCoord) (emath.Vec2, bool) {
	ra0 := emath.DegToRad(t.Tangent.RA)
	dec0 := emath.DegToRad(t.Tangent.Dec)
	ra := emath.DegToRad(c.RA)
	dec := emath.DegToRad(c.Dec)
	dra := ra - ra0

	cosc := math.Sin(dec0)*math.Sin(dec) + math.Cos(dec0)*math.Cos(dec)*math.Cos(dra)
	if cosc <= 0 {
		return emath.Vec2{}, false
	}

	xi := math.Cos(dec) * math.Sin(dra) / cosc
	eta := (math.Cos(dec0)*math.Sin(dec) - math.Sin(dec0)*math.Cos(dec)*math.Cos(dra)) / cosc

	return emath.Vec2{emath.RadToDeg(xi), emath.RadToDeg(eta)}, true
}

package galmask

import(
	"fmt"
	"math"

	"github.com/abworrall/galaxy-mask/pkg/emath"
	"github.com/abworrall/galaxy-mask/pkg/skyproj"
)

// TangentUnitVectors returns the local north and east directions at
// `pos`, as unit vectors in the tangent plane of the gnomonic
// projection about `tangent`. The plane's x axis is xi (east) and its y
// axis is eta (north), same as FITS intermediate world coordinates.
//
// North and east are the normalised partial derivatives of (xi,eta)
// with respect to dec and ra, taken at pos. They only line up with the
// tangent plane axes at the tangent point itself.
func TangentUnitVectors(pos, tangent skyproj.SkyCoord) (un, ue emath.Vec2, err error) {
	// At the poles, ra is arbitrary; pin it so the plane has a fixed
	// orientation. The vectors get rotated back into the frame's own
	// plane (built from its ra) at the end.
	l0 := tangent.RA
	if tangent.Dec == 90 {
		l0 = 180
	} else if tangent.Dec == -90 {
		l0 = 0
	}

	lambda0, phi0 := emath.DegToRad(l0), emath.DegToRad(tangent.Dec)
	lambda1, phi1 := emath.DegToRad(pos.RA), emath.DegToRad(pos.Dec)

	sinP0, cosP0 := math.Sin(phi0), math.Cos(phi0)
	sinP1, cosP1 := math.Sin(phi1), math.Cos(phi1)
	sinDL, cosDL := math.Sin(lambda1-lambda0), math.Cos(lambda1-lambda0)

	// cosine of the angular distance from the tangent point
	cosc := sinP0*sinP1 + cosP0*cosP1*cosDL
	if cosc <= 0 {
		return un, ue, fmt.Errorf("%s is %.1fdeg from tangent point %s: %w",
			pos, skyproj.Separation(pos, tangent), tangent, ErrOrientationUndefined)
	}
	cosc2 := cosc * cosc

	// xi  = cosP1 sinDL / cosc
	// eta = (cosP0 sinP1 - sinP0 cosP1 cosDL) / cosc
	etaNum := cosP0*sinP1 - sinP0*cosP1*cosDL
	dCosc_dPhi := sinP0*cosP1 - cosP0*sinP1*cosDL
	dCosc_dLambda := -cosP0 * cosP1 * sinDL

	dXi_dPhi := -sinP1*sinDL/cosc - cosP1*sinDL*dCosc_dPhi/cosc2
	dEta_dPhi := (cosP0*cosP1 + sinP0*sinP1*cosDL)/cosc - etaNum*dCosc_dPhi/cosc2

	dXi_dLambda := cosP1*cosDL/cosc - cosP1*sinDL*dCosc_dLambda/cosc2
	dEta_dLambda := sinP0*cosP1*sinDL/cosc - etaNum*dCosc_dLambda/cosc2

	if un, err = direction(emath.Vec2{dXi_dPhi, dEta_dPhi}); err != nil {
		return un, ue, fmt.Errorf("no north direction at %s: %w", pos, err)
	}
	// Exactly at a celestial pole, moving in ra goes nowhere
	if ue, err = direction(emath.Vec2{dXi_dLambda, dEta_dLambda}); err != nil {
		return un, ue, fmt.Errorf("no east direction at %s: %w", pos, err)
	}

	if delta := l0 - tangent.RA; delta != 0 {
		if tangent.Dec < 0 {
			delta = -delta
		}
		rot := emath.Identity().Rotate(delta)
		un, ue = rot.Apply(un), rot.Apply(ue)
	}

	return un, ue, nil
}

// Derivatives smaller than this are rounding noise (cos(90deg) isn't
// quite zero in floating point).
const minDerivative = 1e-12

func direction(v emath.Vec2) (emath.Vec2, error) {
	if v.Norm() < minDerivative {
		return emath.Vec2{}, ErrOrientationUndefined
	}
	if u, ok := v.Unit(); ok {
		return u, nil
	}
	return emath.Vec2{}, ErrOrientationUndefined
}

// MajorAxisDirection rotates north towards east by the position angle
// (degrees), giving the direction of the galaxy's major axis in the
// tangent plane.
func MajorAxisDirection(un, ue emath.Vec2, thetaDeg float64) emath.Vec2 {
	theta := emath.DegToRad(thetaDeg)
	return un.Scale(math.Cos(theta)).Add(ue.Scale(math.Sin(theta)))
}

// PositionAngleToPixel carries the major axis direction through the inverse
// pixel scale matrix, and returns its angle (degrees) measured from
// the pixel x axis towards the pixel y axis. This takes care of images
// that are rotated, or flipped (which is most of them; RA increases to
// the left).
func PositionAngleToPixel(un, ue emath.Vec2, thetaDeg float64, ps PixelScale) float64 {
	dir := ps.PixelsPerDegree.Apply(MajorAxisDirection(un, ue, thetaDeg))
	return emath.RadToDeg(math.Atan2(dir[1], dir[0]))
}

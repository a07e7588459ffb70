package emath

// Small fixed-shape linear algebra types, used to carry the pixel <->
// intermediate-world transform of an image around.

import(
	"fmt"
	"math"
	"golang.org/x/image/math/f64"  // Will be "image/math/f64" at some point, hopefully make this file redundant
)

// Use local types so we can hang methods off them
type Aff3 f64.Aff3
type Vec2 f64.Vec2

// Mat2 is a row-major 2x2 matrix: {m00, m01, m10, m11}. There is no
// f64.Mat2, sadly.
type Mat2 [4]float64

// Cut-n-pasted from image@0.7.0/draw/scale:matMul
func (p Aff3)Mult(q Aff3) Aff3 {
	return Aff3{
		p[3*0+0]*q[3*0+0] + p[3*0+1]*q[3*1+0],
		p[3*0+0]*q[3*0+1] + p[3*0+1]*q[3*1+1],
		p[3*0+0]*q[3*0+2] + p[3*0+1]*q[3*1+2] + p[3*0+2],
		p[3*1+0]*q[3*0+0] + p[3*1+1]*q[3*1+0],
		p[3*1+0]*q[3*0+1] + p[3*1+1]*q[3*1+1],
		p[3*1+0]*q[3*0+2] + p[3*1+1]*q[3*1+2] + p[3*1+2],
	}
}

func Identity() Aff3 {
	return Aff3{1, 0, 0,   0, 1, 0}
}

// LinearAff3 wraps a 2x2 matrix as an affine transform with no translation.
func LinearAff3(m Mat2) Aff3 {
	return Aff3{m[0], m[1], 0,   m[2], m[3], 0}
}

func (m1 Aff3)Translate(tx, ty float64) Aff3 {
	return m1.Mult(Aff3{1, 0, tx,   0, 1, ty})
}

func (m1 Aff3)Rotate(thetaDeg float64) Aff3 {
	cosTheta := math.Cos(DegToRad(thetaDeg))
	sinTheta := math.Sin(DegToRad(thetaDeg))
	return m1.Mult(Aff3{cosTheta, -1*sinTheta, 0,    sinTheta, cosTheta, 0})
}

func (m Aff3)Apply(v Vec2) Vec2 {
	return Vec2{
		m[0]*v[0] + m[1]*v[1] + m[2],
		m[3]*v[0] + m[4]*v[1] + m[5],
	}
}

// Linear returns the 2x2 part of the transform, without the translation.
func (m Aff3)Linear() Mat2 { return Mat2{m[0], m[1], m[3], m[4]} }

// Invert returns the inverse transform. Fails if the linear part is singular.
func (m Aff3)Invert() (Aff3, error) {
	inv, err := m.Linear().Invert()
	if err != nil {
		return Aff3{}, err
	}
	// x = A^-1 (y - t)  =>  translation is -A^-1 t
	t := inv.Apply(Vec2{m[2], m[5]})
	return Aff3{inv[0], inv[1], -t[0],   inv[2], inv[3], -t[1]}, nil
}

func (m Mat2)Det() float64 { return m[0]*m[3] - m[1]*m[2] }

func (m Mat2)Invert() (Mat2, error) {
	det := m.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return Mat2{}, fmt.Errorf("matrix %s is singular (det=%g)", m, det)
	}
	return Mat2{m[3]/det, -m[1]/det, -m[2]/det, m[0]/det}, nil
}

func (m Mat2)Apply(v Vec2) Vec2 {
	return Vec2{m[0]*v[0] + m[1]*v[1], m[2]*v[0] + m[3]*v[1]}
}

func (a Mat2)Mult(b Mat2) Mat2 {
	return Mat2{
		a[0]*b[0] + a[1]*b[2], a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2], a[2]*b[1] + a[3]*b[3],
	}
}

func (m Mat2)String() string {
	return fmt.Sprintf("[[%12.6g, %12.6g], [%12.6g, %12.6g]]", m[0], m[1], m[2], m[3])
}

func (v Vec2)String() string {
	return fmt.Sprintf("(%.4f, %.4f)", v[0], v[1])
}

func (v Vec2)Norm() float64 { return math.Hypot(v[0], v[1]) }

func (v Vec2)Scale(f float64) Vec2 { return Vec2{v[0]*f, v[1]*f} }

func (v Vec2)Add(w Vec2) Vec2 { return Vec2{v[0]+w[0], v[1]+w[1]} }

// Unit returns v scaled to length one. A zero or non-finite vector
// comes back with ok=false.
func (v Vec2)Unit() (Vec2, bool) {
	n := v.Norm()
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return Vec2{}, false
	}
	return v.Scale(1.0/n), true
}

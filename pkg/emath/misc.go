package emath

import "math"

// Some functions that only operate on basic types, that are useful

func DegToRad(deg float64) float64 { return deg * math.Pi / 180.0 }
func RadToDeg(rad float64) float64 { return rad * 180.0 / math.Pi }

const ArcsecPerDegree = 3600.0

// OddCeil rounds f up to an integer, then bumps even results up by one
// so that the result always has a middle. Never returns less than 1.
func OddCeil(f float64) int {
	n := int(math.Ceil(f))
	if n < 1 {
		n = 1
	}
	if n%2 == 0 {
		n++
	}
	return n
}

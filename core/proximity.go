package core

// Proximity converts a distance value into a proximity value. It should be an
// order-reversing map from [0, inf) to [0, 1].
type Proximity func(float64) float64

// ShiftedReciprocal is the default proximity transform, 1/(1+x). It maps a
// distance of 0 to 1, a distance of 1 to 0.5, and +Inf to 0. NaN passes
// through unchanged so that upstream data problems stay visible.
func ShiftedReciprocal(x float64) float64 {
	return 1 / (1 + x)
}

// DivOr divides a by b, substituting fallback for the indeterminate 0/0 case.
// A nonzero numerator over a zero denominator still yields an infinity, and a
// NaN operand still yields NaN.
func DivOr(a, b, fallback float64) float64 {
	if a == 0 && b == 0 {
		return fallback
	}
	return a / b
}

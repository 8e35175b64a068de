package safemath

import (
	"golang.org/x/exp/constraints"
)

// Number is the set of types the checked operations accept.
type Number interface {
	constraints.Integer | constraints.Float
}

// Add returns a+b and false if the sum would leave the range of T.
func Add[T Number](a, b T) (T, bool) {
	return LimitsOf[T]().Add(a, b)
}

// Sub returns a-b and false if the difference would leave the range of T.
func Sub[T Number](a, b T) (T, bool) {
	return LimitsOf[T]().Sub(a, b)
}

// Mul returns a*b and false if the product would leave the range of T.
func Mul[T Number](a, b T) (T, bool) {
	return LimitsOf[T]().Mul(a, b)
}

// Add checks a+b against the limits before computing it, so the sum is never
// evaluated when it would wrap.
func (l Limits[T]) Add(a, b T) (T, bool) {
	if (b > 0 && a > l.Max-b) || (b < 0 && a < l.Min-b) {
		return 0, false
	}
	return a + b, true
}

// Sub checks a-b against the limits before computing it.
func (l Limits[T]) Sub(a, b T) (T, bool) {
	if (b > 0 && a < l.Min+b) || (b < 0 && a > l.Max+b) {
		return 0, false
	}
	return a - b, true
}

// Mul checks a*b against the limits before computing it. The divisions below
// truncate toward zero, which keeps the comparisons exact for integers.
func (l Limits[T]) Mul(a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	switch {
	case a > 0 && b > 0:
		if a > l.Max/b {
			return 0, false
		}
	case a > 0 && b < 0:
		if b < l.Min/a {
			return 0, false
		}
	case a < 0 && b > 0:
		if a < l.Min/b {
			return 0, false
		}
	default:
		if a < l.Max/b {
			return 0, false
		}
	}
	return a * b, true
}

// FromUint64 converts v to T, reporting false when v is above T's maximum.
func FromUint64[T Number](v uint64) (T, bool) {
	l := LimitsOf[T]()
	if l.Float() {
		return T(v), true
	}
	// Max of every integer type fits in uint64.
	if v > uint64(l.Max) {
		return 0, false
	}
	return T(v), true
}

package safemath

import (
	"math"
	"reflect"
)

// Limits holds the lowest and highest finite values of T.
type Limits[T Number] struct {
	Min T
	Max T
}

// LimitsOf resolves the limits of T from its underlying kind, so named types
// such as `type Gas uint64` get the limits of their underlying type.
// For floats Min is the lowest finite value, not the smallest positive one.
func LimitsOf[T Number]() Limits[T] {
	var zero T
	switch reflect.TypeOf(zero).Kind() {
	case reflect.Int8:
		return signedLimits[T](math.MinInt8, math.MaxInt8)
	case reflect.Int16:
		return signedLimits[T](math.MinInt16, math.MaxInt16)
	case reflect.Int32:
		return signedLimits[T](math.MinInt32, math.MaxInt32)
	case reflect.Int64:
		return signedLimits[T](math.MinInt64, math.MaxInt64)
	case reflect.Int:
		return signedLimits[T](math.MinInt, math.MaxInt)
	case reflect.Uint8:
		return unsignedLimits[T](math.MaxUint8)
	case reflect.Uint16:
		return unsignedLimits[T](math.MaxUint16)
	case reflect.Uint32:
		return unsignedLimits[T](math.MaxUint32)
	case reflect.Uint64:
		return unsignedLimits[T](math.MaxUint64)
	case reflect.Uint:
		return unsignedLimits[T](math.MaxUint)
	case reflect.Uintptr:
		return unsignedLimits[T](uint64(^uintptr(0)))
	case reflect.Float32:
		return floatLimits[T](math.MaxFloat32)
	case reflect.Float64:
		return floatLimits[T](math.MaxFloat64)
	}
	panic("safemath: unsupported kind " + reflect.TypeOf(zero).Kind().String())
}

func signedLimits[T Number](lo, hi int64) Limits[T] {
	return Limits[T]{Min: T(lo), Max: T(hi)}
}

func unsignedLimits[T Number](hi uint64) Limits[T] {
	return Limits[T]{Min: 0, Max: T(hi)}
}

func floatLimits[T Number](hi float64) Limits[T] {
	return Limits[T]{Min: T(-hi), Max: T(hi)}
}

// Float reports whether T is a floating point type.
func (l Limits[T]) Float() bool {
	half := T(1) / T(2)
	return half != 0
}

// Signed reports whether T can hold negative values.
func (l Limits[T]) Signed() bool {
	return l.Min < 0
}

// Contains reports whether v lies within [Min, Max]. It is false for NaN.
func (l Limits[T]) Contains(v T) bool {
	return v >= l.Min && v <= l.Max
}

// Package bounded applies a fixed step to a value a number of times and stops
// before the running value leaves the range of its type.
//
// The range check runs before every step, so an addition or subtraction that
// would wrap is never evaluated. A failed accumulation exposes no partial
// value.
package bounded

import (
	"fmt"
	"strings"

	"github.com/eigerco/numericoverflow/internal/safemath"
)

// Number is the set of types an accumulation can run over: every Go integer
// and float type, and named types built on them.
type Number = safemath.Number

// Direction selects whether the step is added or subtracted.
type Direction uint8

const (
	DirectionAdd Direction = iota
	DirectionSubtract
)

func (d Direction) String() string {
	switch d {
	case DirectionAdd:
		return "add"
	case DirectionSubtract:
		return "subtract"
	}
	return fmt.Sprintf("direction(%d)", uint8(d))
}

// ParseDirection accepts "add" or "sub"/"subtract", case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+":
		return DirectionAdd, nil
	case "sub", "subtract", "-":
		return DirectionSubtract, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// Accumulate applies step to start steps times in the given direction.
func Accumulate[T Number](start, step T, steps uint64, dir Direction) Outcome[T] {
	if dir == DirectionSubtract {
		return Subtract(start, step, steps)
	}
	return Add(start, step, steps)
}

// Add adds increment to start steps times. It returns Overflow as soon as the
// next addition would exceed the range of T, whichever side the increment
// pushes towards.
func Add[T Number](start, increment T, steps uint64) Outcome[T] {
	if increment == 0 {
		return succeeded(start)
	}
	limits := safemath.LimitsOf[T]()
	result := start
	for i := uint64(0); i < steps; i++ {
		next, ok := limits.Add(result, increment)
		if !ok {
			return failed[T](KindOverflow, i)
		}
		result = next
	}
	return succeeded(result)
}

// Subtract subtracts decrement from start steps times. It returns Underflow as
// soon as the next subtraction would leave the range of T. A negative
// decrement moves towards the maximum and is reported as Underflow too.
func Subtract[T Number](start, decrement T, steps uint64) Outcome[T] {
	if decrement == 0 {
		return succeeded(start)
	}
	limits := safemath.LimitsOf[T]()
	result := start
	for i := uint64(0); i < steps; i++ {
		next, ok := limits.Sub(result, decrement)
		if !ok {
			return failed[T](KindUnderflow, i)
		}
		result = next
	}
	return succeeded(result)
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

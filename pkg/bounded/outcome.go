package bounded

import (
	"errors"
	"fmt"
)

var (
	ErrOverflow  = errors.New("overflow")
	ErrUnderflow = errors.New("underflow")
)

// Kind tells which branch of an Outcome is populated.
type Kind uint8

const (
	KindOk Kind = iota
	KindOverflow
	KindUnderflow
)

func (k Kind) String() string {
	switch k {
	case KindOk:
		return "ok"
	case KindOverflow:
		return "overflow"
	case KindUnderflow:
		return "underflow"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Outcome is the result of an accumulation: either Ok with the accumulated
// value, or Overflow/Underflow with no value at all.
type Outcome[T any] struct {
	kind  Kind
	value T
	step  uint64
}

func succeeded[T any](v T) Outcome[T] {
	return Outcome[T]{kind: KindOk, value: v}
}

func failed[T any](kind Kind, step uint64) Outcome[T] {
	return Outcome[T]{kind: kind, step: step}
}

func (o Outcome[T]) Kind() Kind {
	return o.kind
}

// Value returns the accumulated value and true for an Ok outcome. On failure
// it returns the zero value and false.
func (o Outcome[T]) Value() (T, bool) {
	if o.kind != KindOk {
		var zero T
		return zero, false
	}
	return o.value, true
}

func (o Outcome[T]) IsOk() bool {
	return o.kind == KindOk
}

// Step is the zero-based iteration whose range check failed. It is zero for
// Ok outcomes.
func (o Outcome[T]) Step() uint64 {
	return o.step
}

// Err maps a failed outcome onto ErrOverflow or ErrUnderflow.
func (o Outcome[T]) Err() error {
	switch o.kind {
	case KindOverflow:
		return fmt.Errorf("%w at step %d", ErrOverflow, o.step)
	case KindUnderflow:
		return fmt.Errorf("%w at step %d", ErrUnderflow, o.step)
	}
	return nil
}

func (o Outcome[T]) String() string {
	if o.kind == KindOk {
		return fmt.Sprintf("ok(%v)", o.value)
	}
	return fmt.Sprintf("%s at step %d", o.kind, o.step)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ok":
		*k = KindOk
	case "overflow":
		*k = KindOverflow
	case "underflow":
		*k = KindUnderflow
	default:
		return fmt.Errorf("unknown outcome kind %q", text)
	}
	return nil
}

package harness

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/eigerco/numericoverflow/internal/safemath"
	"github.com/eigerco/numericoverflow/pkg/bounded"
)

var ErrUnknownDomain = errors.New("unknown numeric domain")

type Family string

const (
	FamilySigned   Family = "signed"
	FamilyUnsigned Family = "unsigned"
	FamilyFloat    Family = "float"
)

// Domain describes one concrete numeric type. The suite and accumulate
// closures are instantiated for that type, so callers can dispatch on the
// name alone.
type Domain struct {
	Name    string   `json:"name" yaml:"name"`
	Family  Family   `json:"family" yaml:"family"`
	Bits    int      `json:"bits" yaml:"bits"`
	Min     string   `json:"min" yaml:"min"`
	Max     string   `json:"max" yaml:"max"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`

	suite      func(dir bounded.Direction, steps uint64) Suite
	accumulate func(dir bounded.Direction, start, step string, steps uint64) (Case, error)
}

func define[T safemath.Number](name string, aliases ...string) Domain {
	var zero T
	limits := safemath.LimitsOf[T]()
	family := FamilyUnsigned
	switch {
	case limits.Float():
		family = FamilyFloat
	case limits.Signed():
		family = FamilySigned
	}
	return Domain{
		Name:    name,
		Family:  family,
		Bits:    reflect.TypeOf(zero).Bits(),
		Min:     format(limits.Min),
		Max:     format(limits.Max),
		Aliases: aliases,
		suite: func(dir bounded.Direction, steps uint64) Suite {
			return runSuite[T](name, dir, steps)
		},
		accumulate: func(dir bounded.Direction, start, step string, steps uint64) (Case, error) {
			return accumulateLiterals[T](name, dir, start, step, steps)
		},
	}
}

var catalogue = []Domain{
	define[int8]("int8", "char"),
	define[int16]("int16", "short"),
	define[int32]("int32", "rune", "wchar"),
	define[int64]("int64", "long", "longlong"),
	define[int]("int"),
	define[uint8]("uint8", "byte", "uchar"),
	define[uint16]("uint16", "ushort"),
	define[uint32]("uint32"),
	define[uint64]("uint64", "ulong", "ulonglong"),
	define[uint]("uint"),
	define[uintptr]("uintptr"),
	define[float32]("float32", "float"),
	define[float64]("float64", "double"),
}

// Domains returns every supported domain: signed integers, then unsigned
// integers, then floats.
func Domains() []Domain {
	out := make([]Domain, len(catalogue))
	copy(out, catalogue)
	return out
}

// Lookup finds a domain by name or alias, case-insensitively.
func Lookup(name string) (Domain, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, d := range catalogue {
		if d.Name == key {
			return d, nil
		}
		for _, a := range d.Aliases {
			if a == key {
				return d, nil
			}
		}
	}
	return Domain{}, fmt.Errorf("%w: %q", ErrUnknownDomain, name)
}

// Select resolves names to domains in catalogue order, dropping duplicates.
// No names selects every domain.
func Select(names []string) ([]Domain, error) {
	if len(names) == 0 {
		return Domains(), nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		d, err := Lookup(n)
		if err != nil {
			return nil, err
		}
		wanted[d.Name] = true
	}
	var out []Domain
	for _, d := range catalogue {
		if wanted[d.Name] {
			out = append(out, d)
		}
	}
	return out, nil
}

func format[T safemath.Number](v T) string {
	return fmt.Sprint(v)
}

// Package harness drives the bounded accumulation over the catalogue of
// numeric domains. Each domain is exercised with an increment of MAX/steps:
// once with exactly steps iterations, which must stay in range, and once with
// one iteration more.
package harness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/eigerco/numericoverflow/internal/safemath"
	"github.com/eigerco/numericoverflow/pkg/bounded"
	"github.com/eigerco/numericoverflow/pkg/log"
)

var (
	ErrInvalidSteps   = errors.New("invalid step count")
	ErrInvalidOperand = errors.New("invalid operand")
)

// Case is one call to the accumulation core, rendered as text so that cases
// from different domains can share a report.
type Case struct {
	Domain    string            `json:"domain" yaml:"domain"`
	Direction bounded.Direction `json:"direction" yaml:"direction"`
	Start     string            `json:"start" yaml:"start"`
	Step      string            `json:"step" yaml:"step"`
	Steps     uint64            `json:"steps" yaml:"steps"`
	Outcome   bounded.Kind      `json:"outcome" yaml:"outcome"`
	// FailedAt is the iteration whose range check fired, nil on success.
	FailedAt *uint64 `json:"failed_at,omitempty" yaml:"failed_at,omitempty"`
	Result   string  `json:"result,omitempty" yaml:"result,omitempty"`
	// Expected is start ± step*steps when that is representable.
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
}

func (c Case) Ok() bool {
	return c.Outcome == bounded.KindOk
}

// Suite holds the cases run for one domain in one direction. Skipped is set
// instead of Cases when the step count does not fit the domain.
type Suite struct {
	Domain    string            `json:"domain" yaml:"domain"`
	Direction bounded.Direction `json:"direction" yaml:"direction"`
	Cases     []Case            `json:"cases,omitempty" yaml:"cases,omitempty"`
	Skipped   string            `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

type Report struct {
	Steps     uint64  `json:"steps" yaml:"steps"`
	Overflow  []Suite `json:"overflow" yaml:"overflow"`
	Underflow []Suite `json:"underflow" yaml:"underflow"`
}

// Run exercises every domain, first adding from zero and then subtracting
// from MAX.
func Run(ctx context.Context, domains []Domain, steps uint64) (Report, error) {
	if steps == 0 || steps == math.MaxUint64 {
		return Report{}, fmt.Errorf("%w: %d", ErrInvalidSteps, steps)
	}
	report := Report{Steps: steps}
	for _, dir := range []bounded.Direction{bounded.DirectionAdd, bounded.DirectionSubtract} {
		for _, d := range domains {
			if err := ctx.Err(); err != nil {
				return Report{}, err
			}
			suite := d.suite(dir, steps)
			logSuite(suite)
			if dir == bounded.DirectionAdd {
				report.Overflow = append(report.Overflow, suite)
			} else {
				report.Underflow = append(report.Underflow, suite)
			}
		}
	}
	return report, nil
}

func logSuite(s Suite) {
	if s.Skipped != "" {
		log.Harness.Warn().Str("domain", s.Domain).Stringer("direction", s.Direction).
			Msg(s.Skipped)
		return
	}
	for _, c := range s.Cases {
		ev := log.Harness.Debug().Str("domain", c.Domain).Stringer("direction", c.Direction).
			Uint64("steps", c.Steps).Stringer("outcome", c.Outcome)
		if c.FailedAt != nil {
			ev = ev.Uint64("failed_at", *c.FailedAt)
		}
		ev.Msg("case finished")
	}
}

// Accumulate parses start and step as literals of the domain's type and runs
// the core once.
func Accumulate(d Domain, dir bounded.Direction, start, step string, steps uint64) (Case, error) {
	c, err := d.accumulate(dir, start, step, steps)
	if err != nil {
		return Case{}, err
	}
	log.Harness.Debug().Str("domain", c.Domain).Stringer("direction", dir).
		Stringer("outcome", c.Outcome).Msg("accumulation finished")
	return c, nil
}

func runSuite[T safemath.Number](domain string, dir bounded.Direction, steps uint64) Suite {
	s := Suite{Domain: domain, Direction: dir}
	limits := safemath.LimitsOf[T]()
	n, ok := safemath.FromUint64[T](steps)
	if !ok {
		s.Skipped = fmt.Sprintf("%d steps do not fit in %s", steps, domain)
		return s
	}
	step := limits.Max / n
	var start T
	if dir == bounded.DirectionSubtract {
		start = limits.Max
	}
	s.Cases = []Case{
		newCase(domain, dir, start, step, steps),
		newCase(domain, dir, start, step, steps+1),
	}
	return s
}

func newCase[T safemath.Number](domain string, dir bounded.Direction, start, step T, steps uint64) Case {
	o := bounded.Accumulate(start, step, steps, dir)
	c := Case{
		Domain:    domain,
		Direction: dir,
		Start:     format(start),
		Step:      format(step),
		Steps:     steps,
		Outcome:   o.Kind(),
	}
	if v, ok := o.Value(); ok {
		c.Result = format(v)
	} else {
		at := o.Step()
		c.FailedAt = &at
	}
	if e, ok := expected(start, step, steps, dir); ok {
		c.Expected = format(e)
	}
	return c
}

func expected[T safemath.Number](start, step T, steps uint64, dir bounded.Direction) (T, bool) {
	if n, ok := safemath.FromUint64[T](steps); ok {
		if total, ok := safemath.Mul(step, n); ok {
			if dir == bounded.DirectionSubtract {
				return safemath.Sub(start, total)
			}
			return safemath.Add(start, total)
		}
	}
	// step*steps leaves T, but start ± step*steps may still be in range.
	return widened(start, step, steps, dir)
}

// widened computes start ± step*steps without bounds on the intermediate
// product and reports whether the final value fits in T.
func widened[T safemath.Number](start, step T, steps uint64, dir bounded.Direction) (T, bool) {
	limits := safemath.LimitsOf[T]()
	if limits.Float() {
		return widenedFloat(start, step, steps, dir)
	}
	toBig := func(v T) *big.Int {
		if limits.Signed() {
			return big.NewInt(int64(v))
		}
		return new(big.Int).SetUint64(uint64(v))
	}
	total := new(big.Int).Mul(toBig(step), new(big.Int).SetUint64(steps))
	r := toBig(start)
	if dir == bounded.DirectionSubtract {
		r.Sub(r, total)
	} else {
		r.Add(r, total)
	}
	if r.Cmp(toBig(limits.Min)) < 0 || r.Cmp(toBig(limits.Max)) > 0 {
		return 0, false
	}
	if limits.Signed() {
		return T(r.Int64()), true
	}
	return T(r.Uint64()), true
}

func widenedFloat[T safemath.Number](start, step T, steps uint64, dir bounded.Direction) (T, bool) {
	s, d := float64(start), float64(step)
	if math.IsNaN(s) || math.IsNaN(d) || math.IsInf(s, 0) || math.IsInf(d, 0) {
		return 0, false
	}
	// 53 mantissa bits times a 64 bit count fit in 128 bits.
	const prec = 128
	total := new(big.Float).SetPrec(prec).SetUint64(steps)
	total.Mul(total, new(big.Float).SetFloat64(d))
	r := new(big.Float).SetPrec(prec).SetFloat64(s)
	if dir == bounded.DirectionSubtract {
		r.Sub(r, total)
	} else {
		r.Add(r, total)
	}
	if reflect.TypeOf(start).Bits() == 32 {
		f, _ := r.Float32()
		if math.IsInf(float64(f), 0) {
			return 0, false
		}
		return T(f), true
	}
	f, _ := r.Float64()
	if math.IsInf(f, 0) {
		return 0, false
	}
	return T(f), true
}

func accumulateLiterals[T safemath.Number](domain string, dir bounded.Direction, start, step string, steps uint64) (Case, error) {
	s, err := parse[T](start)
	if err != nil {
		return Case{}, fmt.Errorf("%w: start %q for %s: %v", ErrInvalidOperand, start, domain, err)
	}
	v, err := parse[T](step)
	if err != nil {
		return Case{}, fmt.Errorf("%w: step %q for %s: %v", ErrInvalidOperand, step, domain, err)
	}
	return newCase(domain, dir, s, v, steps), nil
}

// parse reads a single decimal, hex, octal or binary literal sized to T.
func parse[T safemath.Number](literal string) (T, error) {
	var zero T
	literal = strings.TrimSpace(literal)
	bits := reflect.TypeOf(zero).Bits()
	limits := safemath.LimitsOf[T]()
	switch {
	case limits.Float():
		f, err := strconv.ParseFloat(literal, bits)
		if err != nil {
			return zero, err
		}
		return T(f), nil
	case limits.Signed():
		i, err := strconv.ParseInt(literal, 0, bits)
		if err != nil {
			return zero, err
		}
		return T(i), nil
	default:
		u, err := strconv.ParseUint(literal, 0, bits)
		if err != nil {
			return zero, err
		}
		return T(u), nil
	}
}

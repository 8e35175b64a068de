package harness

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/numericoverflow/pkg/bounded"
	"github.com/eigerco/numericoverflow/pkg/log"
)

func init() {
	log.Init(log.Options{LogLevel: zerolog.InfoLevel})
}

func failedAt(step uint64) *uint64 {
	return &step
}

func mustSelect(t *testing.T, names ...string) []Domain {
	t.Helper()
	domains, err := Select(names)
	require.NoError(t, err)
	return domains
}

func TestRun_uint8(t *testing.T) {
	report, err := Run(context.Background(), mustSelect(t, "uint8"), 5)
	require.NoError(t, err)
	require.Len(t, report.Overflow, 1)
	require.Len(t, report.Underflow, 1)

	assert.Equal(t, Suite{
		Domain:    "uint8",
		Direction: bounded.DirectionAdd,
		Cases: []Case{
			{Domain: "uint8", Direction: bounded.DirectionAdd, Start: "0", Step: "51", Steps: 5,
				Outcome: bounded.KindOk, Result: "255", Expected: "255"},
			{Domain: "uint8", Direction: bounded.DirectionAdd, Start: "0", Step: "51", Steps: 6,
				Outcome: bounded.KindOverflow, FailedAt: failedAt(5)},
		},
	}, report.Overflow[0])

	assert.Equal(t, Suite{
		Domain:    "uint8",
		Direction: bounded.DirectionSubtract,
		Cases: []Case{
			{Domain: "uint8", Direction: bounded.DirectionSubtract, Start: "255", Step: "51", Steps: 5,
				Outcome: bounded.KindOk, Result: "0", Expected: "0"},
			{Domain: "uint8", Direction: bounded.DirectionSubtract, Start: "255", Step: "51", Steps: 6,
				Outcome: bounded.KindUnderflow, FailedAt: failedAt(5)},
		},
	}, report.Underflow[0])
}

func TestRun_AllDomains(t *testing.T) {
	report, err := Run(context.Background(), Domains(), 5)
	require.NoError(t, err)
	require.Len(t, report.Overflow, len(catalogue))
	require.Len(t, report.Underflow, len(catalogue))

	for _, s := range report.Overflow {
		require.Len(t, s.Cases, 2, s.Domain)
		assert.True(t, s.Cases[0].Ok(), "%s: %d steps must stay in range", s.Domain, s.Cases[0].Steps)
		// Every domain, floats included, overflows on the extra step.
		assert.Equal(t, bounded.KindOverflow, s.Cases[1].Outcome, s.Domain)
	}
	for _, s := range report.Underflow {
		require.Len(t, s.Cases, 2, s.Domain)
		assert.True(t, s.Cases[0].Ok(), s.Domain)
		d, err := Lookup(s.Domain)
		require.NoError(t, err)
		if d.Family == FamilyUnsigned {
			assert.Equal(t, bounded.KindUnderflow, s.Cases[1].Outcome, s.Domain)
		} else {
			// MAX - 6*(MAX/5) is still above MIN for signed and float domains.
			assert.True(t, s.Cases[1].Ok(), s.Domain)
		}
	}
}

func TestRun_SignedUnderflowSuite(t *testing.T) {
	report, err := Run(context.Background(), mustSelect(t, "char"), 5)
	require.NoError(t, err)
	cases := report.Underflow[0].Cases
	assert.Equal(t, "2", cases[0].Result)
	assert.Equal(t, "2", cases[0].Expected)
	assert.Equal(t, "-23", cases[1].Result)
	// 6*25 does not fit in int8, but 127-150 does.
	assert.Equal(t, "-23", cases[1].Expected)
}

func TestExpected_ProductOutsideDomain(t *testing.T) {
	got, ok := expected[int64](math.MaxInt64, math.MaxInt64/5, 6, bounded.DirectionSubtract)
	require.True(t, ok)
	assert.Equal(t, int64(math.MaxInt64-6*(math.MaxInt64/5)), got)

	got8, ok := expected[uint8](200, 100, 3, bounded.DirectionSubtract)
	assert.False(t, ok)
	assert.Zero(t, got8)

	// More steps than uint8 can count, with a zero step.
	gotU, ok := expected[uint8](7, 0, math.MaxUint64, bounded.DirectionAdd)
	require.True(t, ok)
	assert.Equal(t, uint8(7), gotU)

	gotF, ok := expected(math.MaxFloat64, math.MaxFloat64/5, 6, bounded.DirectionSubtract)
	require.True(t, ok)
	assert.Less(t, gotF, 0.0)
	assert.InEpsilon(t, -math.MaxFloat64/5, gotF, 1e-9)

	_, ok = expected(float32(math.MaxFloat32), math.MaxFloat32/2, 3, bounded.DirectionAdd)
	assert.False(t, ok)
}

func TestRun_ExpectedMatchesResult(t *testing.T) {
	report, err := Run(context.Background(), Domains(), 5)
	require.NoError(t, err)
	for _, s := range append(report.Overflow, report.Underflow...) {
		for _, c := range s.Cases {
			if c.Ok() && s.Domain != "float32" && s.Domain != "float64" {
				assert.Equal(t, c.Result, c.Expected, "%s %s x %d", s.Domain, s.Direction, c.Steps)
			}
		}
	}
}

func TestRun_Floats(t *testing.T) {
	report, err := Run(context.Background(), mustSelect(t, "float", "double"), 5)
	require.NoError(t, err)
	require.Len(t, report.Overflow, 2)
	assert.Equal(t, "float32", report.Overflow[0].Domain)
	assert.Equal(t, "3.4028235e+38", report.Overflow[0].Cases[0].Result)
	assert.Equal(t, "1.7976931348623157e+308", report.Overflow[1].Cases[0].Result)
	assert.Equal(t, "0", report.Underflow[0].Cases[0].Result)
}

func TestRun_StepsOutsideDomain(t *testing.T) {
	report, err := Run(context.Background(), mustSelect(t, "int8", "int16"), 300)
	require.NoError(t, err)
	assert.Equal(t, "300 steps do not fit in int8", report.Overflow[0].Skipped)
	assert.Empty(t, report.Overflow[0].Cases)
	assert.Empty(t, report.Overflow[1].Skipped)
	assert.Len(t, report.Overflow[1].Cases, 2)
	assert.Equal(t, "109", report.Overflow[1].Cases[0].Step)
}

func TestRun_InvalidSteps(t *testing.T) {
	for _, steps := range []uint64{0, math.MaxUint64} {
		_, err := Run(context.Background(), Domains(), steps)
		assert.ErrorIs(t, err, ErrInvalidSteps, "steps=%d", steps)
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Domains(), 5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLookup(t *testing.T) {
	for alias, want := range map[string]string{
		"char":     "int8",
		"wchar":    "int32",
		"Rune":     "int32",
		"long":     "int64",
		"byte":     "uint8",
		"ulong":    "uint64",
		"float":    "float32",
		"double":   "float64",
		" uint16 ": "uint16",
	} {
		d, err := Lookup(alias)
		require.NoError(t, err, alias)
		assert.Equal(t, want, d.Name, alias)
	}

	_, err := Lookup("int128")
	assert.ErrorIs(t, err, ErrUnknownDomain)
}

func TestSelect(t *testing.T) {
	domains := mustSelect(t, "double", "char", "int8")
	require.Len(t, domains, 2)
	assert.Equal(t, "int8", domains[0].Name)
	assert.Equal(t, "float64", domains[1].Name)

	_, err := Select([]string{"uint8", "decimal"})
	assert.ErrorIs(t, err, ErrUnknownDomain)

	assert.Len(t, mustSelect(t), len(catalogue))
}

func TestDomainDescriptors(t *testing.T) {
	d, err := Lookup("int8")
	require.NoError(t, err)
	assert.Equal(t, FamilySigned, d.Family)
	assert.Equal(t, 8, d.Bits)
	assert.Equal(t, "-128", d.Min)
	assert.Equal(t, "127", d.Max)

	d, err = Lookup("uint64")
	require.NoError(t, err)
	assert.Equal(t, FamilyUnsigned, d.Family)
	assert.Equal(t, "0", d.Min)
	assert.Equal(t, "18446744073709551615", d.Max)

	d, err = Lookup("float32")
	require.NoError(t, err)
	assert.Equal(t, FamilyFloat, d.Family)
	assert.Equal(t, 32, d.Bits)
	assert.Equal(t, "-3.4028235e+38", d.Min)
}

func TestAccumulate(t *testing.T) {
	byteDomain, err := Lookup("byte")
	require.NoError(t, err)

	c, err := Accumulate(byteDomain, bounded.DirectionAdd, "0", "51", 6)
	require.NoError(t, err)
	assert.Equal(t, bounded.KindOverflow, c.Outcome)
	assert.Equal(t, failedAt(5), c.FailedAt)

	c, err = Accumulate(byteDomain, bounded.DirectionSubtract, "0xff", "0b110011", 5)
	require.NoError(t, err)
	assert.Equal(t, "0", c.Result)

	short, err := Lookup("short")
	require.NoError(t, err)
	c, err = Accumulate(short, bounded.DirectionAdd, "-100", "-1_000", 3)
	require.NoError(t, err)
	assert.Equal(t, "-3100", c.Result)
	assert.Equal(t, "-3100", c.Expected)

	double, err := Lookup("double")
	require.NoError(t, err)
	c, err = Accumulate(double, bounded.DirectionAdd, "0.5", "1e3", 2)
	require.NoError(t, err)
	assert.Equal(t, "2000.5", c.Result)
}

func TestAccumulate_InvalidOperands(t *testing.T) {
	byteDomain, err := Lookup("uint8")
	require.NoError(t, err)

	_, err = Accumulate(byteDomain, bounded.DirectionAdd, "256", "1", 1)
	assert.ErrorIs(t, err, ErrInvalidOperand)

	_, err = Accumulate(byteDomain, bounded.DirectionAdd, "0", "-1", 1)
	assert.ErrorIs(t, err, ErrInvalidOperand)

	_, err = Accumulate(byteDomain, bounded.DirectionAdd, "1+1", "1", 1)
	assert.ErrorIs(t, err, ErrInvalidOperand)
}

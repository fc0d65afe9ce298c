// Package quantity implements arithmetic over unit-tagged scalars. The unit is
// carried only at the interface boundary; every operation is plain float64
// arithmetic underneath.
package quantity

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/hexbotics/framemath/frames"
)

// DefaultTolerance is the absolute tolerance used by ApproxEq.
const DefaultTolerance = 1e-10

// A Quantity is a single number branded with a unit. Immutable value semantics.
type Quantity struct {
	Value float64
	Unit  frames.UnitTag
}

// New returns a Quantity holding value in the given unit.
func New(value float64, unit frames.UnitTag) Quantity {
	return Quantity{Value: value, Unit: unit}
}

// Add returns q + other. The units must match.
func (q Quantity) Add(other Quantity) Quantity {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return Quantity{q.Value + other.Value, q.Unit}
}

// Sub returns q − other. The units must match.
func (q Quantity) Sub(other Quantity) Quantity {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return Quantity{q.Value - other.Value, q.Unit}
}

// Neg returns −q.
func (q Quantity) Neg() Quantity {
	return Quantity{-q.Value, q.Unit}
}

// Abs returns |q|.
func (q Quantity) Abs() Quantity {
	return Quantity{math.Abs(q.Value), q.Unit}
}

// Min returns the smaller of q and other. The units must match.
func (q Quantity) Min(other Quantity) Quantity {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return Quantity{math.Min(q.Value, other.Value), q.Unit}
}

// Max returns the larger of q and other. The units must match.
func (q Quantity) Max(other Quantity) Quantity {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return Quantity{math.Max(q.Value, other.Value), q.Unit}
}

// Scale returns q multiplied by a dimensionless factor; the unit is unchanged.
func (q Quantity) Scale(factor float64) Quantity {
	return Quantity{q.Value * factor, q.Unit}
}

// Mul returns a·b tagged with resultUnit. The result unit is asserted by the
// caller; units are symbolic labels, so the product unit cannot be derived here.
func Mul(a, b Quantity, resultUnit frames.UnitTag) Quantity {
	return Quantity{a.Value * b.Value, resultUnit}
}

// Div returns a/b tagged with resultUnit, asserted by the caller.
func Div(a, b Quantity, resultUnit frames.UnitTag) Quantity {
	return Quantity{a.Value / b.Value, resultUnit}
}

// Sqrt returns the square root of q tagged with resultUnit. It is the caller's
// responsibility that q's unit is the square of resultUnit.
func Sqrt(q Quantity, resultUnit frames.UnitTag) Quantity {
	return Quantity{math.Sqrt(q.Value), resultUnit}
}

// Clamp restricts value to [lo, hi], returning an error when lo > hi. All three
// units must match.
func Clamp(value, lo, hi Quantity) (Quantity, error) {
	frames.MustMatchUnits(value.Unit, lo.Unit)
	frames.MustMatchUnits(value.Unit, hi.Unit)
	if lo.Value > hi.Value {
		return Quantity{}, NewInvalidRangeError(lo.Value, hi.Value)
	}
	return ClampUnchecked(value, lo, hi), nil
}

// ClampUnchecked restricts value to the interval spanned by lo and hi without
// validating their order, via max(lo, min(value, hi)).
func ClampUnchecked(value, lo, hi Quantity) Quantity {
	return Quantity{math.Max(lo.Value, math.Min(value.Value, hi.Value)), value.Unit}
}

// Eq reports exact float equality. The units must match.
func (q Quantity) Eq(other Quantity) bool {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return q.Value == other.Value
}

// ApproxEq reports |q − other| <= DefaultTolerance. The units must match.
func (q Quantity) ApproxEq(other Quantity) bool {
	return q.ApproxEqTol(other, DefaultTolerance)
}

// ApproxEqTol reports |q − other| <= tol. The units must match.
func (q Quantity) ApproxEqTol(other Quantity, tol float64) bool {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return math.Abs(q.Value-other.Value) <= tol
}

// Lt reports q < other. The units must match.
func (q Quantity) Lt(other Quantity) bool {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return q.Value < other.Value
}

// Lte reports q <= other. The units must match.
func (q Quantity) Lte(other Quantity) bool {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return q.Value <= other.Value
}

// Gt reports q > other. The units must match.
func (q Quantity) Gt(other Quantity) bool {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return q.Value > other.Value
}

// Gte reports q >= other. The units must match.
func (q Quantity) Gte(other Quantity) bool {
	frames.MustMatchUnits(q.Unit, other.Unit)
	return q.Value >= other.Value
}

// Sum returns the sum of the given quantities in the given unit. Every element
// must carry that unit. An empty sum is zero.
func Sum(unit frames.UnitTag, values ...Quantity) Quantity {
	raw := make([]float64, len(values))
	for i, v := range values {
		frames.MustMatchUnits(unit, v.Unit)
		raw[i] = v.Value
	}
	return Quantity{floats.Sum(raw), unit}
}

// Average returns the mean of the given quantities in the given unit, or NaN
// for an empty input.
func Average(unit frames.UnitTag, values ...Quantity) Quantity {
	if len(values) == 0 {
		return Quantity{math.NaN(), unit}
	}
	total := Sum(unit, values...)
	return Quantity{total.Value / float64(len(values)), unit}
}

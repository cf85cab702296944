package strudel

import (
	"math/big"
)

// Rational is an exact fraction over arbitrary-precision integers. All time
// quantities in the engine are Rationals; endpoint comparisons rely on exact
// equality, so none of the combinators ever round through floats. The zero
// value is 0.
type Rational struct {
	r big.Rat
}

// R returns the Rational for an integer.
func R(n int64) Rational {
	var out big.Rat
	out.SetInt64(n)
	return Rational{out}
}

// Rat returns the normalized Rational num/den. A zero denominator is a
// programmer error and panics.
func Rat(num, den int64) Rational {
	if den == 0 {
		panic("strudel: rational with zero denominator")
	}
	var out big.Rat
	out.SetFrac64(num, den)
	return Rational{out}
}

// FromFloat converts a float to the Rational representing it exactly.
// Infinities and NaN panic; they cannot name a point in time.
func FromFloat(f float64) Rational {
	var out big.Rat
	if out.SetFloat64(f) == nil {
		panic("strudel: non-finite time")
	}
	return Rational{out}
}

func (a Rational) Add(b Rational) Rational {
	var out big.Rat
	out.Add(&a.r, &b.r)
	return Rational{out}
}

func (a Rational) Sub(b Rational) Rational {
	var out big.Rat
	out.Sub(&a.r, &b.r)
	return Rational{out}
}

func (a Rational) Mul(b Rational) Rational {
	var out big.Rat
	out.Mul(&a.r, &b.r)
	return Rational{out}
}

// Div divides two Rationals. Dividing by zero panics, like integer division.
func (a Rational) Div(b Rational) Rational {
	var out big.Rat
	out.Quo(&a.r, &b.r)
	return Rational{out}
}

// Mod is the floored modulo: a - b*floor(a/b). The result has the sign of b.
func (a Rational) Mod(b Rational) Rational {
	return a.Sub(b.Mul(a.Div(b).Floor()))
}

func (a Rational) Neg() Rational {
	var out big.Rat
	out.Neg(&a.r)
	return Rational{out}
}

func (a Rational) Inverse() Rational {
	var out big.Rat
	out.Inv(&a.r)
	return Rational{out}
}

func (a Rational) Abs() Rational {
	var out big.Rat
	out.Abs(&a.r)
	return Rational{out}
}

func (a Rational) Cmp(b Rational) int    { return a.r.Cmp(&b.r) }
func (a Rational) Equal(b Rational) bool { return a.Cmp(b) == 0 }
func (a Rational) Lt(b Rational) bool    { return a.Cmp(b) < 0 }
func (a Rational) Lte(b Rational) bool   { return a.Cmp(b) <= 0 }
func (a Rational) Gt(b Rational) bool    { return a.Cmp(b) > 0 }
func (a Rational) Gte(b Rational) bool   { return a.Cmp(b) >= 0 }
func (a Rational) Sign() int             { return a.r.Sign() }
func (a Rational) IsZero() bool          { return a.r.Sign() == 0 }
func (a Rational) IsInteger() bool       { return a.r.IsInt() }

func (a Rational) Min(b Rational) Rational {
	if a.Lte(b) {
		return a
	}
	return b
}

func (a Rational) Max(b Rational) Rational {
	if a.Gte(b) {
		return a
	}
	return b
}

// Floor rounds towards negative infinity, staying integral.
func (a Rational) Floor() Rational {
	var q big.Int
	q.Div(a.r.Num(), a.r.Denom())
	var out big.Rat
	out.SetInt(&q)
	return Rational{out}
}

// Ceil rounds towards positive infinity, staying integral.
func (a Rational) Ceil() Rational {
	f := a.Floor()
	if f.Equal(a) {
		return f
	}
	return f.Add(R(1))
}

// Sam is the start of the cycle the time falls in, i.e. the floor.
func (a Rational) Sam() Rational { return a.Floor() }

// NextSam is the start of the next cycle.
func (a Rational) NextSam() Rational { return a.Sam().Add(R(1)) }

// CyclePos is the position within the current cycle, in [0, 1).
func (a Rational) CyclePos() Rational { return a.Sub(a.Sam()) }

// WholeCycle is the span of the cycle the time falls in.
func (a Rational) WholeCycle() Span { return Span{a.Sam(), a.NextSam()} }

// Gcd of two Rationals: gcd(n1/d1, n2/d2) = gcd(n1, n2)/lcm(d1, d2).
func (a Rational) Gcd(b Rational) Rational {
	var num, den big.Int
	num.GCD(nil, nil, a.r.Num(), b.r.Num())
	den.Mul(a.r.Denom(), b.r.Denom())
	var dgcd big.Int
	dgcd.GCD(nil, nil, a.r.Denom(), b.r.Denom())
	den.Div(&den, &dgcd)
	var out big.Rat
	out.SetFrac(&num, &den)
	return Rational{out}
}

// Lcm of two Rationals: lcm(n1/d1, n2/d2) = lcm(n1, n2)/gcd(d1, d2).
func (a Rational) Lcm(b Rational) Rational {
	if a.IsZero() || b.IsZero() {
		return R(0)
	}
	var ngcd big.Int
	ngcd.GCD(nil, nil, a.r.Num(), b.r.Num())
	var num big.Int
	num.Mul(a.r.Num(), b.r.Num())
	num.Div(&num, &ngcd)
	num.Abs(&num)
	var den big.Int
	den.GCD(nil, nil, a.r.Denom(), b.r.Denom())
	var out big.Rat
	out.SetFrac(&num, &den)
	return Rational{out}
}

// Float gives the nearest float64; only signals and the random family go
// through floats, never span endpoints.
func (a Rational) Float() float64 {
	f, _ := a.r.Float64()
	return f
}

// Int truncates towards negative infinity and reports whether the floor fits
// an int64.
func (a Rational) Int() (int64, bool) {
	f := a.Floor()
	if !f.r.Num().IsInt64() {
		return 0, false
	}
	return f.r.Num().Int64(), true
}

func (a Rational) String() string { return a.r.RatString() }

// mulMaybe multiplies two nullable Rationals; either side missing yields nil.
func mulMaybe(a, b *Rational) *Rational {
	if a == nil || b == nil {
		return nil
	}
	out := a.Mul(*b)
	return &out
}

func ratPtr(a Rational) *Rational { return &a }

func lcmSteps(haveAny bool, acc Rational, steps *Rational) (bool, Rational) {
	if steps == nil {
		return haveAny, acc
	}
	if !haveAny {
		return true, *steps
	}
	return true, acc.Lcm(*steps)
}

package strudel

import "math"

// The continuous signal sources. Signals have no wholes; querying one
// samples its value at the start of the query span. Unipolar signals run in
// [0, 1]; the "2" variants are their bipolar [-1, 1] versions.

// Time is the identity signal: the value is the query time itself.
var Time = Signal(func(t Rational) any { return t })

// Sine oscillates once per cycle, starting from its midpoint.
var Sine = Signal(func(t Rational) any {
	return (math.Sin(2*math.Pi*t.Float()) + 1) / 2
})

// Cosine is sine a quarter cycle ahead.
var Cosine = Sine.Early(Rat(1, 4))

// Saw ramps from 0 to 1 every cycle.
var Saw = Signal(func(t Rational) any { return t.CyclePos().Float() })

// ISaw ramps from 1 down to 0.
var ISaw = Signal(func(t Rational) any { return 1 - t.CyclePos().Float() })

// Tri falls then rises.
var Tri = FastCat(ISaw, Saw)

// ITri rises then falls.
var ITri = FastCat(Saw, ISaw)

// Square is low for the first half of each cycle, high for the second.
var Square = Signal(func(t Rational) any {
	return math.Floor(math.Mod(t.Float()*2, 2))
})

// ISquare is high first.
var ISquare = Square.FMap(func(v any) any {
	f, _ := toFloat(v)
	return 1 - f
})

// Bipolar variants.
var (
	Sine2    = Sine.ToBipolar()
	Cosine2  = Cosine.ToBipolar()
	Saw2     = Saw.ToBipolar()
	ISaw2    = ISaw.ToBipolar()
	Tri2     = Tri.ToBipolar()
	ITri2    = ITri.ToBipolar()
	Square2  = Square.ToBipolar()
	ISquare2 = ISquare.ToBipolar()
)

// ToBipolar rescales a unipolar signal into [-1, 1].
func (p Pattern) ToBipolar() Pattern {
	return p.FMap(func(v any) any {
		f, ok := toFloat(v)
		if !ok {
			return v
		}
		return f*2 - 1
	})
}

// FromBipolar rescales a bipolar signal into [0, 1].
func (p Pattern) FromBipolar() Pattern {
	return p.FMap(func(v any) any {
		f, ok := toFloat(v)
		if !ok {
			return v
		}
		return (f + 1) / 2
	})
}

// Range rescales a unipolar pattern linearly into [min, max].
func (p Pattern) Range(min, max any) Pattern {
	lo, ok1 := toFloat(min)
	hi, ok2 := toFloat(max)
	if !ok1 || !ok2 {
		logError("invalid range bounds", nil)
		return Silence
	}
	return p.FMap(func(v any) any {
		f, ok := toFloat(v)
		if !ok {
			return v
		}
		return f*(hi-lo) + lo
	})
}

// RangeX rescales exponentially; the bounds must be positive.
func (p Pattern) RangeX(min, max any) Pattern {
	lo, ok1 := toFloat(min)
	hi, ok2 := toFloat(max)
	if !ok1 || !ok2 || lo <= 0 || hi <= 0 {
		logError("rangex bounds must be positive", nil)
		return Silence
	}
	return p.FMap(func(v any) any {
		f, ok := toFloat(v)
		if !ok {
			return v
		}
		return math.Exp(f*(math.Log(hi)-math.Log(lo)) + math.Log(lo))
	})
}

// Run counts 0..n-1 once per cycle.
func Run(n any) Pattern {
	return patternifyInt(n, Silence, func(n int64, _ Pattern) Pattern {
		if n <= 0 {
			return Silence
		}
		vals := make([]any, n)
		for i := int64(0); i < n; i++ {
			vals[i] = i
		}
		return Sequence(vals...)
	})
}

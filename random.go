package strudel

import "math"

// Deterministic hashed randomness. A draw is a pure function of query time:
// the time is folded into a 29-bit seed and whitened with an xorshift, so
// the same span always hears the same dice. Everything random in the engine
// goes through these; there is no stateful generator anywhere.

const randRange = 536870912 // 2^29

func xorwise(x int32) int32 {
	a := (x << 13) ^ x
	b := (a >> 17) ^ a
	return (b << 5) ^ b
}

func timeToIntSeed(t Rational) int32 {
	frac := t.Div(R(300)).CyclePos()
	return xorwise(int32(frac.Mul(R(randRange)).Floor().Float()))
}

func intSeedToRand(x int32) float64 {
	return float64(x%randRange) / randRange
}

func timeToRand(t Rational) float64 {
	return math.Abs(intSeedToRand(timeToIntSeed(t)))
}

func timeToRands(t Rational, n int) []float64 {
	seed := timeToIntSeed(t)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Abs(intSeedToRand(seed))
		seed = xorwise(seed)
	}
	return out
}

// Rand is a continuous stream of draws in [0, 1).
var Rand = Signal(func(t Rational) any { return timeToRand(t) })

// IRand draws whole numbers below n.
func IRand(n any) Pattern {
	return patternifyInt(n, Silence, func(n int64, _ Pattern) Pattern {
		if n <= 0 {
			return Silence
		}
		return Rand.FMap(func(v any) any {
			f, _ := toFloat(v)
			return int64(math.Floor(f * float64(n)))
		})
	})
}

// Brand is a continuous coin flip.
var Brand = BrandBy(0.5)

// BrandBy flips a weighted coin: true with the given probability.
func BrandBy(prob any) Pattern {
	return patternifyFloat(prob, Silence, func(p float64, _ Pattern) Pattern {
		return Rand.FMap(func(v any) any {
			f, _ := toFloat(v)
			return f < p
		})
	})
}

// Perlin is smooth noise: draws at whole-cycle times, interpolated with a
// smootherstep in between.
var Perlin = Signal(func(t Rational) any {
	a := timeToRand(t.Floor())
	b := timeToRand(t.Floor().Add(R(1)))
	x := t.CyclePos().Float()
	s := 6*math.Pow(x, 5) - 15*math.Pow(x, 4) + 10*math.Pow(x, 3)
	return a + s*(b-a)
})

// Berlin is the ramp-only variant: the same draws, linear in between.
var Berlin = Signal(func(t Rational) any {
	a := timeToRand(t.Floor())
	b := timeToRand(t.Floor().Add(R(1)))
	return a + t.CyclePos().Float()*(b-a)
})

// Choose picks between the values continuously, steered by Rand.
func Choose(xs ...any) Pattern {
	return ChooseWith(Rand, xs...)
}

// ChooseWith picks between the values steered by any unipolar selector.
func ChooseWith(selector Pattern, xs ...any) Pattern {
	if len(xs) == 0 {
		return Silence
	}
	pats := make([]Pattern, len(xs))
	for i, x := range xs {
		pats[i] = Reify(x)
	}
	return selector.FMap(func(v any) any {
		f, _ := toFloat(v)
		i := int(math.Floor(f * float64(len(pats))))
		if i < 0 {
			i = 0
		}
		if i >= len(pats) {
			i = len(pats) - 1
		}
		return pats[i]
	}).OuterJoin()
}

// ChooseCycles picks one value per cycle.
func ChooseCycles(xs ...any) Pattern {
	return chooseCyclesWith(Rand.Segment(1), xs...)
}

// RandCat is chooseCycles under its concatenation name.
func RandCat(xs ...any) Pattern {
	return ChooseCycles(xs...)
}

func chooseCyclesWith(selector Pattern, xs ...any) Pattern {
	if len(xs) == 0 {
		return Silence
	}
	pats := make([]Pattern, len(xs))
	for i, x := range xs {
		pats[i] = Reify(x)
	}
	return selector.FMap(func(v any) any {
		f, _ := toFloat(v)
		i := int(math.Floor(f * float64(len(pats))))
		if i < 0 {
			i = 0
		}
		if i >= len(pats) {
			i = len(pats) - 1
		}
		return pats[i]
	}).InnerJoin()
}

// WChoose picks continuously with the given weights.
func WChoose(pairs ...WeightedValue) Pattern {
	return wchooseWith(Rand, pairs, false)
}

// WRandCat picks one arm per cycle with the given weights.
func WRandCat(pairs ...WeightedValue) Pattern {
	return wchooseWith(Rand.Segment(1), pairs, true)
}

// WeightedValue pairs a candidate with its relative weight.
type WeightedValue struct {
	Value  any
	Weight float64
}

func wchooseWith(selector Pattern, pairs []WeightedValue, innerJoin bool) Pattern {
	if len(pairs) == 0 {
		return Silence
	}
	total := 0.0
	for _, pr := range pairs {
		if pr.Weight > 0 {
			total += pr.Weight
		}
	}
	if total <= 0 {
		return Silence
	}
	sel := selector.FMap(func(v any) any {
		f, _ := toFloat(v)
		target := f * total
		acc := 0.0
		for _, pr := range pairs {
			if pr.Weight <= 0 {
				continue
			}
			acc += pr.Weight
			if target < acc {
				return Reify(pr.Value)
			}
		}
		return Reify(pairs[len(pairs)-1].Value)
	})
	if innerJoin {
		return sel.InnerJoin()
	}
	return sel.OuterJoin()
}

// randRun deals the numbers 0..n-1 into n equal slots in a fresh random
// order every cycle.
func randRun(n int64) Pattern {
	if n <= 0 {
		return Silence
	}
	out := NewPattern(func(st State) []Hap {
		cycle := st.Span.Begin.Sam()
		rands := timeToRands(cycle.Add(Rat(1, 2)), int(n))
		order := make([]int, n)
		for i := range order {
			order[i] = i
		}
		for i := 1; i < len(order); i++ {
			for j := i; j > 0 && rands[order[j]] < rands[order[j-1]]; j-- {
				order[j], order[j-1] = order[j-1], order[j]
			}
		}
		var haps []Hap
		for slot, idx := range order {
			whole := Span{
				cycle.Add(Rat(int64(slot), n)),
				cycle.Add(Rat(int64(slot)+1, n)),
			}
			part, ok := whole.Intersection(st.Span)
			if !ok {
				continue
			}
			haps = append(haps, Hap{Whole: &whole, Part: part, Value: int64(idx)})
		}
		return haps
	})
	return out.WithSteps(R(n)).splitQueries()
}

// Shuffle plays the pattern's n slices in a random order each cycle, every
// slice exactly once.
func (p Pattern) Shuffle(args ...any) Pattern {
	return patternifyInt(sequenceArgs(args), p, func(n int64, p Pattern) Pattern {
		return rearrangeWith(randRun(n), n, p)
	})
}

// Scramble resamples a random slice for each of the n slots; repeats happen.
func (p Pattern) Scramble(args ...any) Pattern {
	return patternifyInt(sequenceArgs(args), p, func(n int64, p Pattern) Pattern {
		return rearrangeWith(IRand(n).Segment(n), n, p)
	})
}

func rearrangeWith(ipat Pattern, n int64, p Pattern) Pattern {
	if n <= 0 {
		return Silence
	}
	slices := make([]Pattern, n)
	for i := int64(0); i < n; i++ {
		slices[i] = p.Zoom(Rat(i, n), Rat(i+1, n))
	}
	return ipat.FMap(func(v any) any {
		i, ok := toInt(v)
		if !ok || i < 0 || i >= n {
			return Silence
		}
		// The squeeze plays inner cycle c*n inside cycle c; repeating the
		// source cycles n times lines the slice back up with its own cycle.
		return _repeatCycles(n, slices[i])
	}).SqueezeJoin()
}

// DegradeBy drops each event with the given probability, decided by a draw
// tied to the event's position.
func (p Pattern) DegradeBy(args ...any) Pattern {
	return patternifyFloat(sequenceArgs(args), p, func(x float64, p Pattern) Pattern {
		return degradeByWith(Rand, x, p)
	})
}

// UndegradeBy drops each event with the given probability using the reversed
// draw 1 - r, so UndegradeBy(1-x) keeps exactly the events DegradeBy(x) drops.
func (p Pattern) UndegradeBy(args ...any) Pattern {
	return patternifyFloat(sequenceArgs(args), p, func(x float64, p Pattern) Pattern {
		return degradeByWith(Rand.FMap(func(v any) any {
			f, _ := toFloat(v)
			return 1 - f
		}), x, p)
	})
}

// Degrade drops half the events.
func (p Pattern) Degrade() Pattern { return p.DegradeBy(0.5) }

// Undegrade keeps the other half.
func (p Pattern) Undegrade() Pattern { return p.UndegradeBy(0.5) }

func degradeByWith(randPat Pattern, x float64, p Pattern) Pattern {
	keep := randPat.FilterValues(func(v any) bool {
		f, _ := toFloat(v)
		return f >= x
	})
	return p.FMap(func(v any) any {
		return func(any) any { return v }
	}).AppLeft(keep)
}

// SometimesBy applies f to the given fraction of events, chosen by the same
// draws that degrade uses, so the two halves interlock exactly.
func (p Pattern) SometimesBy(prob any, f func(Pattern) Pattern) Pattern {
	return patternifyFloat(prob, p, func(x float64, p Pattern) Pattern {
		return Stack(p.DegradeBy(x), f(p.UndegradeBy(1-x)))
	})
}

// The familiar frequency ladder.
func (p Pattern) Sometimes(f func(Pattern) Pattern) Pattern    { return p.SometimesBy(0.5, f) }
func (p Pattern) Often(f func(Pattern) Pattern) Pattern        { return p.SometimesBy(0.75, f) }
func (p Pattern) Rarely(f func(Pattern) Pattern) Pattern       { return p.SometimesBy(0.25, f) }
func (p Pattern) AlmostAlways(f func(Pattern) Pattern) Pattern { return p.SometimesBy(0.9, f) }
func (p Pattern) AlmostNever(f func(Pattern) Pattern) Pattern  { return p.SometimesBy(0.1, f) }
func (p Pattern) Always(f func(Pattern) Pattern) Pattern       { return p.SometimesBy(1, f) }
func (p Pattern) Never(f func(Pattern) Pattern) Pattern        { return p.SometimesBy(0, f) }

// SomeCyclesBy applies f to whole cycles with the given probability.
func (p Pattern) SomeCyclesBy(prob any, f func(Pattern) Pattern) Pattern {
	return patternifyFloat(prob, p, func(x float64, p Pattern) Pattern {
		cond := Rand.Segment(1).FMap(func(v any) any {
			r, _ := toFloat(v)
			return r < x
		})
		return p.When(cond, f)
	})
}

// SomeCycles is SomeCyclesBy at a half.
func (p Pattern) SomeCycles(f func(Pattern) Pattern) Pattern {
	return p.SomeCyclesBy(0.5, f)
}

package strudel

// The structural time transforms. Each takes its time-like arguments as any:
// plain numbers resolve immediately, patterns re-evaluate the transform per
// argument event. Multiple arguments to the variadic forms are sequenced
// first, so p.Fast(2, 3) plays cycle halves at the two rates.

// Fast speeds the pattern up: k cycles play per cycle. A zero factor yields
// Silence, a negative one plays backwards.
func (p Pattern) Fast(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, _fast)
}

func _fast(k Rational, p Pattern) Pattern {
	if k.IsZero() {
		return Silence
	}
	if k.Sign() < 0 {
		return _fast(k.Neg(), p).Rev()
	}
	return p.
		withQueryTime(func(t Rational) Rational { return t.Mul(k) }).
		withHapTime(func(t Rational) Rational { return t.Div(k) })
}

// Slow stretches the pattern over k cycles.
func (p Pattern) Slow(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(k Rational, p Pattern) Pattern {
		if k.IsZero() {
			return Silence
		}
		return _fast(k.Inverse(), p)
	})
}

// Early shifts the pattern to begin sooner by the offset.
func (p Pattern) Early(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, _early)
}

func _early(o Rational, p Pattern) Pattern {
	return p.
		withQueryTime(func(t Rational) Rational { return t.Add(o) }).
		withHapTime(func(t Rational) Rational { return t.Sub(o) })
}

// Late shifts the pattern to begin later by the offset.
func (p Pattern) Late(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(o Rational, p Pattern) Pattern {
		return _early(o.Neg(), p)
	})
}

// Rev reflects each cycle across its midpoint.
func (p Pattern) Rev() Pattern {
	out := NewPattern(func(st State) []Hap {
		cycle := st.Span.Begin.Sam()
		next := st.Span.Begin.NextSam()
		reflect := func(s Span) Span {
			return s.WithTime(func(t Rational) Rational {
				return cycle.Add(next.Sub(t))
			})
		}
		haps := p.Query(st.SetSpan(reflect(st.Span)))
		out := make([]Hap, len(haps))
		for i, h := range haps {
			out[i] = h.WithSpan(reflect)
		}
		return out
	})
	return out.withStepsPtr(p.steps).splitQueries()
}

// Palindrome alternates the pattern with its reversal, cycle by cycle.
func (p Pattern) Palindrome() Pattern {
	return SlowCat(p, p.Rev())
}

// Compress squeezes the pattern into the [b, e] part of each cycle, leaving
// silence around it. A degenerate or out-of-cycle interval yields Silence.
func (p Pattern) Compress(b, e any) Pattern {
	return patternify2Rat(b, e, p, func(b, e Rational, p Pattern) Pattern {
		return p.compressSpan(Span{b, e})
	})
}

func (p Pattern) compressSpan(span Span) Pattern {
	b, e := span.Begin, span.End
	if b.Gt(e) || b.Gt(R(1)) || e.Gt(R(1)) || b.Sign() < 0 || e.Sign() < 0 || b.Equal(e) {
		return Silence
	}
	return _fastGap(e.Sub(b).Inverse(), p).Late(b)
}

// FastGap plays one cycle of the pattern compressed into the first 1/k of
// each cycle, with a gap after it.
func (p Pattern) FastGap(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, _fastGap)
}

func _fastGap(k Rational, p Pattern) Pattern {
	if k.Sign() <= 0 {
		return Silence
	}
	one := R(1)
	qf := func(s Span) Span {
		cycle := s.Begin.Sam()
		return Span{
			cycle.Add(s.Begin.Sub(cycle).Mul(k).Min(one)),
			cycle.Add(s.End.Sub(cycle).Mul(k).Min(one)),
		}
	}
	ef := func(s Span) Span {
		cycle := s.Begin.Sam()
		return Span{
			cycle.Add(s.Begin.Sub(cycle).Div(k).Min(one)),
			cycle.Add(s.End.Sub(cycle).Div(k).Min(one)),
		}
	}
	out := NewPattern(func(st State) []Hap {
		mapped := qf(st.Span)
		// The squeezed image of the next cycle's boundary; a query starting
		// exactly there would produce spurious zero-width events.
		if mapped.Begin.Equal(st.Span.Begin.Sam().Add(one)) {
			return nil
		}
		haps := p.Query(st.SetSpan(mapped))
		outHaps := make([]Hap, len(haps))
		for i, h := range haps {
			outHaps[i] = h.WithSpan(ef)
		}
		return outHaps
	})
	return out.withStepsPtr(mulMaybe(p.steps, ratPtr(k))).splitQueries()
}

// Focus is compress without the gap: the pattern speeds up to fit the window
// but keeps playing throughout the cycle.
func (p Pattern) Focus(b, e any) Pattern {
	return patternify2Rat(b, e, p, func(b, e Rational, p Pattern) Pattern {
		return p.focusSpan(Span{b, e})
	})
}

// focusSpan maps one pattern cycle onto the given span, which may cross
// cycle boundaries; squeezeJoin uses this to fit inner cycles to outer
// events.
func (p Pattern) focusSpan(span Span) Pattern {
	d := span.End.Sub(span.Begin)
	if d.Sign() <= 0 {
		return Silence
	}
	return _fast(d.Inverse(), p).Late(span.Begin.CyclePos())
}

// Zoom plays the [b, e] slice of the pattern over each full cycle; the
// reverse of focus. A degenerate interval yields Nothing.
func (p Pattern) Zoom(b, e any) Pattern {
	return patternify2Rat(b, e, p, _zoom)
}

func _zoom(b, e Rational, p Pattern) Pattern {
	d := e.Sub(b)
	if d.Sign() <= 0 {
		return Nothing
	}
	out := NewPattern(func(st State) []Hap {
		qspan := st.Span.WithCycle(func(t Rational) Rational { return t.Mul(d).Add(b) })
		haps := p.Query(st.SetSpan(qspan))
		mapped := make([]Hap, len(haps))
		for i, h := range haps {
			mapped[i] = h.WithSpan(func(s Span) Span {
				return s.WithCycle(func(t Rational) Rational { return t.Sub(b).Div(d) })
			})
		}
		return mapped
	})
	return out.withStepsPtr(mulMaybe(p.steps, ratPtr(d))).splitQueries()
}

// Ply repeats every event n times within its own span.
func (p Pattern) Ply(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(n Rational, p Pattern) Pattern {
		out := p.SqueezeBind(func(v any) Pattern { return _fast(n, Pure(v)) })
		if s, ok := p.Steps(); ok {
			out = out.WithSteps(s.Mul(n))
		}
		return out
	})
}

// Linger loops the first t of each cycle for the whole cycle; a negative t
// loops the tail instead.
func (p Pattern) Linger(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(t Rational, p Pattern) Pattern {
		if t.IsZero() {
			return Silence
		}
		if t.Sign() < 0 {
			return _fast(t.Inverse(), _zoom(R(1).Add(t), R(1), p))
		}
		return _fast(t.Inverse(), _zoom(R(0), t, p))
	})
}

// Iter shifts the pattern by i/n more on each successive cycle, coming back
// around after n cycles.
func (p Pattern) Iter(args ...any) Pattern {
	return patternifyInt(sequenceArgs(args), p, func(n int64, p Pattern) Pattern {
		return _iter(n, p, false)
	})
}

// IterBack walks the same rotation the other way.
func (p Pattern) IterBack(args ...any) Pattern {
	return patternifyInt(sequenceArgs(args), p, func(n int64, p Pattern) Pattern {
		return _iter(n, p, true)
	})
}

func _iter(n int64, p Pattern, back bool) Pattern {
	if n <= 0 {
		return p
	}
	pats := make([]Pattern, n)
	for i := int64(0); i < n; i++ {
		if back {
			pats[i] = p.Late(Rat(i, n))
		} else {
			pats[i] = p.Early(Rat(i, n))
		}
	}
	return SlowCat(pats...)
}

// RepeatCycles plays each source cycle n times before moving on.
func (p Pattern) RepeatCycles(args ...any) Pattern {
	return patternifyInt(sequenceArgs(args), p, _repeatCycles)
}

func _repeatCycles(n int64, p Pattern) Pattern {
	if n <= 0 {
		return p
	}
	out := NewPattern(func(st State) []Hap {
		cycle := st.Span.Begin.Sam()
		source := cycle.Div(R(n)).Floor()
		delta := cycle.Sub(source)
		haps := p.Query(st.SetSpan(st.Span.WithTime(func(t Rational) Rational { return t.Sub(delta) })))
		mapped := make([]Hap, len(haps))
		for i, h := range haps {
			mapped[i] = h.WithSpan(func(s Span) Span {
				return s.WithTime(func(t Rational) Rational { return t.Add(delta) })
			})
		}
		return mapped
	})
	return out.withStepsPtr(p.steps).splitQueries()
}

// FirstOf applies f on every cycle whose index is 0 mod n.
func (p Pattern) FirstOf(n any, f func(Pattern) Pattern) Pattern {
	return patternifyInt(n, p, func(n int64, p Pattern) Pattern {
		if n <= 0 {
			return p
		}
		pats := make([]Pattern, n)
		pats[0] = f(p)
		for i := int64(1); i < n; i++ {
			pats[i] = p
		}
		return slowCatPrime(pats...)
	})
}

// Every is firstOf by its usual name.
func (p Pattern) Every(n any, f func(Pattern) Pattern) Pattern {
	return p.FirstOf(n, f)
}

// LastOf applies f on every cycle whose index is n-1 mod n.
func (p Pattern) LastOf(n any, f func(Pattern) Pattern) Pattern {
	return patternifyInt(n, p, func(n int64, p Pattern) Pattern {
		if n <= 0 {
			return p
		}
		pats := make([]Pattern, n)
		for i := int64(0); i < n-1; i++ {
			pats[i] = p
		}
		pats[n-1] = f(p)
		return slowCatPrime(pats...)
	})
}

// Off overlays a transformed copy of the pattern, shifted later by t.
func (p Pattern) Off(t any, f func(Pattern) Pattern) Pattern {
	return Stack(p, f(p.Late(t)))
}

// Superimpose overlays a transformed copy with no shift.
func (p Pattern) Superimpose(f func(Pattern) Pattern) Pattern {
	return Stack(p, f(p))
}

// When applies f wherever the condition pattern is true.
func (p Pattern) When(cond any, f func(Pattern) Pattern) Pattern {
	transformed := f(p)
	out := Reify(cond).FMap(func(v any) any {
		if truthy(v) {
			return transformed
		}
		return p
	}).InnerJoin()
	return out.withStepsPtr(p.steps)
}

// Within applies f only to the events beginning inside [b, e) of each cycle.
func (p Pattern) Within(b, e any, f func(Pattern) Pattern) Pattern {
	return patternify2Rat(b, e, p, func(b, e Rational, p Pattern) Pattern {
		in := func(t Rational) bool {
			pos := t.CyclePos()
			return pos.Gte(b) && pos.Lt(e)
		}
		return Stack(
			f(p.filterWhen(in)),
			p.filterWhen(func(t Rational) bool { return !in(t) }),
		)
	})
}

// Inside slows the pattern by n, applies f, and speeds it back up.
func (p Pattern) Inside(n any, f func(Pattern) Pattern) Pattern {
	return patternifyRat(n, p, func(n Rational, p Pattern) Pattern {
		return f(p.Slow(n)).Fast(n)
	})
}

// Outside is the inverse nesting.
func (p Pattern) Outside(n any, f func(Pattern) Pattern) Pattern {
	return patternifyRat(n, p, func(n Rational, p Pattern) Pattern {
		return f(p.Fast(n)).Slow(n)
	})
}

// Chunk divides the cycle into n slices and applies f to one slice per
// cycle, repeating source cycles so every slice sees the same material.
func (p Pattern) Chunk(n any, f func(Pattern) Pattern) Pattern {
	return patternifyInt(n, p, func(n int64, p Pattern) Pattern {
		return _chunk(n, f, p, false, false)
	})
}

// ChunkBack walks the slices in the other direction.
func (p Pattern) ChunkBack(n any, f func(Pattern) Pattern) Pattern {
	return patternifyInt(n, p, func(n int64, p Pattern) Pattern {
		return _chunk(n, f, p, true, false)
	})
}

// FastChunk is chunk without the cycle repetition.
func (p Pattern) FastChunk(n any, f func(Pattern) Pattern) Pattern {
	return patternifyInt(n, p, func(n int64, p Pattern) Pattern {
		return _chunk(n, f, p, false, true)
	})
}

func _chunk(n int64, f func(Pattern) Pattern, p Pattern, back, fast bool) Pattern {
	if n <= 0 {
		return p
	}
	binary := make([]any, n)
	binary[0] = true
	for i := int64(1); i < n; i++ {
		binary[i] = false
	}
	mask := Sequence(binary...)
	if back {
		mask = mask.IterBack(n)
	} else {
		mask = mask.Iter(n)
	}
	src := p
	if !fast {
		src = p.RepeatCycles(n)
	}
	return src.When(mask, f)
}

// ChunkInto applies f to slice c mod n on cycle c through within, walking
// the untouched pattern underneath instead of repeating cycles.
func (p Pattern) ChunkInto(n any, f func(Pattern) Pattern) Pattern {
	return patternifyInt(n, p, func(n int64, p Pattern) Pattern {
		if n <= 0 {
			return p
		}
		pats := make([]Pattern, n)
		for i := int64(0); i < n; i++ {
			pats[i] = p.Within(Rat(i, n), Rat(i+1, n), f)
		}
		return slowCatPrime(pats...)
	})
}

// Ribbon cuts the given number of cycles starting at offset and loops them.
func (p Pattern) Ribbon(offset, cycles any) Pattern {
	return patternify2Rat(offset, cycles, p, func(o, c Rational, p Pattern) Pattern {
		if c.Sign() <= 0 {
			return Silence
		}
		return p.Early(o).Restart(Pure(1).Slow(c))
	})
}

// Segment discretizes a pattern into n equal steps per cycle, sampling
// continuous signals into ordinary events.
func (p Pattern) Segment(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(n Rational, p Pattern) Pattern {
		if n.Sign() <= 0 {
			return Silence
		}
		return p.Struct(Pure(true).Fast(n)).WithSteps(n)
	})
}

// patternify2Rat lifts a pair of time-like arguments.
func patternify2Rat(a, b any, pat Pattern, f func(a, b Rational, pat Pattern) Pattern) Pattern {
	aPat, bPat := Reify(a), Reify(b)
	av, aok := aPat.PureValue()
	bv, bok := bPat.PureValue()
	if aok && bok {
		ra, err1 := toRational(av)
		rb, err2 := toRational(bv)
		if err1 != nil || err2 != nil {
			logError("invalid numeric argument", nil)
			return Silence
		}
		return f(ra, rb, pat)
	}
	pairs := aPat.FMap(func(x any) any {
		return func(y any) any { return [2]any{x, y} }
	}).AppLeft(bPat)
	out := pairs.FMap(func(v any) any {
		pair := v.([2]any)
		ra, err1 := toRational(pair[0])
		rb, err2 := toRational(pair[1])
		if err1 != nil || err2 != nil {
			logError("invalid numeric argument", nil)
			return Silence
		}
		return f(ra, rb, pat)
	}).InnerJoin()
	return out.withStepsPtr(pat.steps)
}

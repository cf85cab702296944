package strudel

// The applicative combinators. A function pattern holds values of type
// func(any) any; applying it to a value pattern pairs up every two events
// whose parts intersect. The four variants differ only in where the combined
// event's whole comes from.

// AppWhole is the generic applicative: wholeFn combines the wholes of each
// intersecting pair.
func (p Pattern) AppWhole(wholeFn func(a, b *Span) *Span, other Pattern) Pattern {
	return NewPattern(func(st State) []Hap {
		hapFuncs := p.Query(st)
		hapVals := other.Query(st)
		var haps []Hap
		for _, hf := range hapFuncs {
			f, ok := hf.Value.(func(any) any)
			if !ok {
				continue
			}
			for _, hv := range hapVals {
				part, ok := hf.Part.Intersection(hv.Part)
				if !ok {
					continue
				}
				haps = append(haps, Hap{
					Whole:   wholeFn(hf.Whole, hv.Whole),
					Part:    part,
					Value:   f(hv.Value),
					Context: hf.CombineContext(hv),
				})
			}
		}
		return haps
	})
}

// AppBoth keeps structure from both sides: events exist only where both
// exist, with the wholes clipped to each other. Steps combine by lcm.
func (p Pattern) AppBoth(other Pattern) Pattern {
	wholeFn := func(a, b *Span) *Span {
		if a == nil || b == nil {
			return nil
		}
		s := a.Sect(*b)
		return &s
	}
	out := p.AppWhole(wholeFn, other)
	haveAny, acc := lcmSteps(false, Rational{}, p.steps)
	haveAny, acc = lcmSteps(haveAny, acc, other.steps)
	if haveAny {
		return out.WithSteps(acc)
	}
	return out
}

// AppLeft takes structure from the function pattern: for each function
// event, the value pattern is queried over that event's whole (or part when
// continuous) and the results are clipped back into it.
func (p Pattern) AppLeft(other Pattern) Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, hf := range p.Query(st) {
			f, ok := hf.Value.(func(any) any)
			if !ok {
				continue
			}
			for _, hv := range other.Query(st.SetSpan(hf.WholeOrPart())) {
				part, ok := hf.Part.Intersection(hv.Part)
				if !ok {
					continue
				}
				haps = append(haps, Hap{
					Whole:   hf.Whole,
					Part:    part,
					Value:   f(hv.Value),
					Context: hv.CombineContext(hf),
				})
			}
		}
		return haps
	})
	return out.withStepsPtr(p.steps)
}

// AppRight is the mirror image: structure from the value pattern.
func (p Pattern) AppRight(other Pattern) Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, hv := range other.Query(st) {
			for _, hf := range p.Query(st.SetSpan(hv.WholeOrPart())) {
				f, ok := hf.Value.(func(any) any)
				if !ok {
					continue
				}
				part, ok := hf.Part.Intersection(hv.Part)
				if !ok {
					continue
				}
				haps = append(haps, Hap{
					Whole:   hv.Whole,
					Part:    part,
					Value:   f(hv.Value),
					Context: hv.CombineContext(hf),
				})
			}
		}
		return haps
	})
	return out.withStepsPtr(other.steps)
}

// JoinKind names the six disciplines for collapsing a pattern of patterns.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinOuter
	JoinSqueeze
	JoinReset
	JoinRestart
	JoinPoly
)

// JoinWith collapses a pattern whose values are patterns (or reifiable
// values) using the given discipline.
func (p Pattern) JoinWith(kind JoinKind) Pattern {
	switch kind {
	case JoinOuter:
		return p.OuterJoin()
	case JoinSqueeze:
		return p.SqueezeJoin()
	case JoinReset:
		return p.ResetJoin()
	case JoinRestart:
		return p.RestartJoin()
	case JoinPoly:
		return p.PolyJoin()
	default:
		return p.InnerJoin()
	}
}

// InnerJoin: the inner patterns' structure dominates; the outer pattern only
// selects which inner pattern is playing.
func (p Pattern) InnerJoin() Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, outer := range p.Query(st) {
			inner := Reify(outer.Value)
			for _, ih := range inner.Query(st.SetSpan(outer.Part)) {
				if ih.Part.Begin.Equal(ih.Part.End) && st.Span.Begin.Lt(st.Span.End) {
					continue
				}
				haps = append(haps, Hap{
					Whole:   ih.Whole,
					Part:    ih.Part,
					Value:   ih.Value,
					Context: ih.CombineContext(outer),
				})
			}
		}
		return haps
	})
	return out.withStepsPtr(p.steps).splitQueries()
}

// OuterJoin: the outer structure dominates; the inner pattern is sampled at
// the start of each outer event and its value fills the outer span.
func (p Pattern) OuterJoin() Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, outer := range p.Query(st) {
			inner := Reify(outer.Value)
			begin := outer.WholeOrPart().Begin
			for _, ih := range inner.Query(st.SetSpan(Span{begin, begin})) {
				haps = append(haps, Hap{
					Whole:   outer.Whole,
					Part:    outer.Part,
					Value:   ih.Value,
					Context: ih.CombineContext(outer),
				})
			}
		}
		return haps
	})
	return out.withStepsPtr(p.steps).splitQueries()
}

// SqueezeJoin: each inner pattern is squeezed so one of its cycles fits the
// outer event's whole exactly.
func (p Pattern) SqueezeJoin() Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, outer := range p.Query(st) {
			inner := Reify(outer.Value).focusSpan(outer.WholeOrPart())
			for _, ih := range inner.Query(st.SetSpan(outer.Part)) {
				part, ok := ih.Part.Intersection(outer.Part)
				if !ok {
					continue
				}
				var whole *Span
				if ih.Whole != nil && outer.Whole != nil {
					w := *ih.Whole
					whole = &w
				}
				haps = append(haps, Hap{
					Whole:   whole,
					Part:    part,
					Value:   ih.Value,
					Context: ih.CombineContext(outer),
				})
			}
		}
		return haps
	})
	return out.withStepsPtr(p.steps).splitQueries()
}

// ResetJoin: each inner pattern is shifted so its cycle start coincides with
// the outer event's onset within the cycle.
func (p Pattern) ResetJoin() Pattern {
	return p.realignJoin(false)
}

// RestartJoin: each inner pattern restarts from its own time zero at the
// outer event's onset.
func (p Pattern) RestartJoin() Pattern {
	return p.realignJoin(true)
}

func (p Pattern) realignJoin(restart bool) Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, outer := range p.Query(st) {
			shift := outer.WholeOrPart().Begin
			if !restart {
				shift = shift.CyclePos()
			}
			inner := Reify(outer.Value).Late(shift)
			for _, ih := range inner.Query(st.SetSpan(outer.Part)) {
				part, ok := ih.Part.Intersection(outer.Part)
				if !ok {
					continue
				}
				var whole *Span
				if ih.Whole != nil && outer.Whole != nil {
					w := *ih.Whole
					whole = &w
				}
				haps = append(haps, Hap{
					Whole:   whole,
					Part:    part,
					Value:   ih.Value,
					Context: ih.CombineContext(outer),
				})
			}
		}
		return haps
	})
	return out.withStepsPtr(p.steps).splitQueries()
}

// PolyJoin: each inner pattern is extended so its step count matches the
// outer's, then joined outer-wise.
func (p Pattern) PolyJoin() Pattern {
	outerSteps, ok := p.Steps()
	if !ok {
		return p.OuterJoin()
	}
	return p.FMap(func(v any) any {
		inner := Reify(v)
		if is, ok := inner.Steps(); ok && !is.IsZero() {
			return inner.Extend(outerSteps.Div(is))
		}
		return inner
	}).OuterJoin()
}

// Bind is the monadic bind: each value maps to a pattern, queried over the
// outer event's part, with the wholes clipped to each other. The Inner,
// Outer and Squeeze variants pick the corresponding join instead.
func (p Pattern) Bind(f func(any) Pattern) Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, outer := range p.Query(st) {
			inner := f(outer.Value)
			for _, ih := range inner.Query(st.SetSpan(outer.Part)) {
				var whole *Span
				if outer.Whole != nil && ih.Whole != nil {
					w := outer.Whole.Sect(*ih.Whole)
					whole = &w
				}
				haps = append(haps, Hap{
					Whole:   whole,
					Part:    ih.Part,
					Value:   ih.Value,
					Context: ih.CombineContext(outer),
				})
			}
		}
		return haps
	})
	return out
}

// InnerBind maps every value to a pattern and inner-joins.
func (p Pattern) InnerBind(f func(any) Pattern) Pattern {
	return p.FMap(func(v any) any { return f(v) }).InnerJoin()
}

// OuterBind maps every value to a pattern and outer-joins.
func (p Pattern) OuterBind(f func(any) Pattern) Pattern {
	return p.FMap(func(v any) any { return f(v) }).OuterJoin()
}

// SqueezeBind maps every value to a pattern and squeeze-joins.
func (p Pattern) SqueezeBind(f func(any) Pattern) Pattern {
	return p.FMap(func(v any) any { return f(v) }).SqueezeJoin()
}

package strudel

// The stepwise sublanguage. A pattern may know how many discrete steps it
// presents per cycle; these operators combine patterns by step count rather
// than by cycle. Operators needing a step count on a pattern that has none
// return Nothing without logging; that is a valid signal that the operation
// does not apply.

// Step is an explicitly weighted arm for StepCat.
type Step struct {
	Weight any
	Pat    any
}

// StepCat concatenates arms proportionally to their step counts: an arm
// with twice the steps takes twice the time. Arms may be Step pairs, or bare
// patterns and values using their own step count (1 when undefined). The
// result's steps is the sum.
func StepCat(items ...any) Pattern {
	var timed []timedPat
	total := R(0)
	for _, item := range items {
		var weight Rational
		var pat Pattern
		switch it := item.(type) {
		case Step:
			w, err := toRational(it.Weight)
			if err != nil {
				logError("invalid step weight", err)
				return Nothing
			}
			weight, pat = w, Reify(it.Pat)
		default:
			pat = Reify(item)
			if s, ok := pat.Steps(); ok {
				weight = s
			} else {
				weight = R(1)
			}
		}
		timed = append(timed, timedPat{weight, pat})
		if weight.Sign() > 0 {
			total = total.Add(weight)
		}
	}
	if total.IsZero() {
		return Nothing
	}
	return timeCat(timed).WithSteps(total)
}

// StepJoin collapses a pattern of patterns stepwise: the outer cycle is cut
// at every part boundary, each slice plays the matching fragments of its
// inner patterns, and slice widths follow the inner step counts. Inner
// patterns without steps share the steps the others contribute.
func (p Pattern) StepJoin() Pattern {
	out := NewPattern(func(st State) []Hap {
		cycle := st.Span.Begin.Sam()
		pat := stepJoinCycle(p, cycle, st.Controls)
		return pat.Query(st)
	})
	out = out.splitQueries()
	if s, ok := stepJoinCycle(p, R(0), nil).Steps(); ok {
		return out.WithSteps(s)
	}
	return out
}

func stepJoinCycle(p Pattern, cycle Rational, controls map[string]any) Pattern {
	outer := p.Query(State{Span: Span{cycle, cycle.Add(R(1))}, Controls: controls})
	if len(outer) == 0 {
		return Nothing
	}
	// Slice boundaries: every part edge, made unique and ordered.
	bounds := []Rational{cycle, cycle.Add(R(1))}
	for _, h := range outer {
		bounds = append(bounds, h.Part.Begin, h.Part.End)
	}
	bounds = sortUniqueRats(bounds)

	var arms []timedPat
	for i := 0; i+1 < len(bounds); i++ {
		b, e := bounds[i], bounds[i+1]
		width := e.Sub(b)
		if width.Sign() <= 0 {
			continue
		}
		var frags []Pattern
		var fragSteps []*Rational
		for _, h := range outer {
			if h.Part.Begin.Gt(b) || h.Part.End.Lt(e) {
				continue
			}
			extent := h.WholeOrPart()
			d := extent.Duration()
			if d.Sign() <= 0 {
				continue
			}
			relB := b.Sub(extent.Begin).Div(d)
			relE := e.Sub(extent.Begin).Div(d)
			inner := Reify(h.Value)
			frags = append(frags, inner.Zoom(relB, relE))
			if s, ok := inner.Steps(); ok {
				scaled := s.Mul(relE.Sub(relB))
				fragSteps = append(fragSteps, &scaled)
			} else {
				fragSteps = append(fragSteps, nil)
			}
		}
		// Slice weight: the widest step contribution of its fragments;
		// stepless fragments adopt it. Bare slices weigh their width.
		weight := Rational{}
		haveWeight := false
		for _, s := range fragSteps {
			if s != nil && (!haveWeight || s.Gt(weight)) {
				weight, haveWeight = *s, true
			}
		}
		if !haveWeight {
			weight = width
		}
		if len(frags) == 0 {
			arms = append(arms, timedPat{weight, Silence})
			continue
		}
		arms = append(arms, timedPat{weight, Stack(frags...)})
	}
	total := R(0)
	for _, a := range arms {
		if a.weight.Sign() > 0 {
			total = total.Add(a.weight)
		}
	}
	if total.IsZero() {
		return Nothing
	}
	return timeCat(arms).WithSteps(total)
}

func sortUniqueRats(rats []Rational) []Rational {
	out := make([]Rational, 0, len(rats))
	for _, r := range rats {
		out = append(out, r)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Lt(out[j-1]); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	uniq := out[:0]
	for i, r := range out {
		if i == 0 || !r.Equal(uniq[len(uniq)-1]) {
			uniq = append(uniq, r)
		}
	}
	return uniq
}

// Polymeter lines the arms up on a shared step grid: every arm is paced to
// the lcm of the step counts, so shorter arms wrap around.
func Polymeter(args ...any) Pattern {
	pats := make([]Pattern, 0, len(args))
	haveAny, acc := false, Rational{}
	for _, a := range args {
		pat := Reify(a)
		pats = append(pats, pat)
		if s, ok := pat.Steps(); ok && !s.IsZero() {
			haveAny, acc = lcmSteps(haveAny, acc, &s)
		}
	}
	if !haveAny {
		return Stack(pats...)
	}
	arms := make([]Pattern, len(pats))
	for i, pat := range pats {
		if s, ok := pat.Steps(); ok && !s.IsZero() {
			arms[i] = _pace(acc, pat)
		} else {
			arms[i] = pat
		}
	}
	return Stack(arms...).WithSteps(acc)
}

// Pace re-times the pattern so it presents the target number of steps per
// cycle.
func (p Pattern) Pace(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, _pace)
}

func _pace(target Rational, p Pattern) Pattern {
	s, ok := p.Steps()
	if !ok || s.IsZero() || target.Sign() <= 0 {
		return Nothing
	}
	return p.Fast(target.Div(s)).WithSteps(target)
}

// Take keeps the first i steps (the last i when negative).
func (p Pattern) Take(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, _take)
}

func _take(i Rational, p Pattern) Pattern {
	s, ok := p.Steps()
	if !ok || s.Sign() <= 0 || i.IsZero() {
		return Nothing
	}
	n := i.Abs().Min(s)
	var out Pattern
	if i.Sign() > 0 {
		out = _zoom(R(0), n.Div(s), p)
	} else {
		out = _zoom(R(1).Sub(n.Div(s)), R(1), p)
	}
	return out.WithSteps(n)
}

// Drop removes the first i steps (the last i when negative).
func (p Pattern) Drop(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, _drop)
}

func _drop(i Rational, p Pattern) Pattern {
	s, ok := p.Steps()
	if !ok || s.Sign() <= 0 {
		return Nothing
	}
	if i.IsZero() {
		return p
	}
	if i.Abs().Gte(s) {
		return Nothing
	}
	var out Pattern
	if i.Sign() > 0 {
		out = _zoom(i.Div(s), R(1), p)
	} else {
		out = _zoom(R(0), R(1).Add(i.Div(s)), p)
	}
	return out.WithSteps(s.Sub(i.Abs()))
}

// Expand multiplies the declared step count without changing the sound.
func (p Pattern) Expand(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(k Rational, p Pattern) Pattern {
		s, ok := p.Steps()
		if !ok || k.Sign() <= 0 {
			return Nothing
		}
		return p.WithSteps(s.Mul(k))
	})
}

// Contract divides the declared step count.
func (p Pattern) Contract(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(k Rational, p Pattern) Pattern {
		s, ok := p.Steps()
		if !ok || k.Sign() <= 0 {
			return Nothing
		}
		return p.WithSteps(s.Div(k))
	})
}

// Extend repeats the pattern k times and widens its step count to match, so
// stepwise concatenation gives the repeats full room.
func (p Pattern) Extend(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(k Rational, p Pattern) Pattern {
		s, ok := p.Steps()
		if !ok || k.Sign() <= 0 {
			return Nothing
		}
		return p.Fast(k).WithSteps(s.Mul(k))
	})
}

// Replicate is extend with the source cycles repeated, so every repeat plays
// the same cycle.
func (p Pattern) Replicate(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(k Rational, p Pattern) Pattern {
		s, ok := p.Steps()
		if !ok || k.Sign() <= 0 {
			return Nothing
		}
		n, intOK := k.Int()
		if !intOK || !k.IsInteger() {
			return Nothing
		}
		return p.RepeatCycles(n).Fast(k).WithSteps(s.Mul(k))
	})
}

// Shrink chains progressively shorter versions of the pattern, dropping n
// more steps each round until nothing is left.
func (p Pattern) Shrink(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(n Rational, p Pattern) Pattern {
		s, ok := p.Steps()
		if !ok || s.Sign() <= 0 || n.IsZero() {
			return Nothing
		}
		var stages []any
		for cut := R(0); cut.Lt(s); cut = cut.Add(n.Abs()) {
			if n.Sign() > 0 {
				stages = append(stages, _drop(cut, p))
			} else {
				stages = append(stages, _drop(cut.Neg(), p))
			}
		}
		return StepCat(stages...)
	})
}

// Grow is the reverse accumulation: n steps, then 2n, up to the whole
// pattern.
func (p Pattern) Grow(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(n Rational, p Pattern) Pattern {
		s, ok := p.Steps()
		if !ok || s.Sign() <= 0 || n.IsZero() {
			return Nothing
		}
		var stages []any
		for keep := n.Abs(); ; keep = keep.Add(n.Abs()) {
			clamped := keep.Min(s)
			if n.Sign() > 0 {
				stages = append(stages, _take(clamped, p))
			} else {
				stages = append(stages, _take(clamped.Neg(), p))
			}
			if clamped.Equal(s) {
				break
			}
		}
		return StepCat(stages...)
	})
}

// Zip interleaves the arms step by step inside a single cycle.
func Zip(args ...any) Pattern {
	pats := make([]Pattern, 0, len(args))
	haveAny, acc := false, Rational{}
	for _, a := range args {
		pat := Reify(a)
		s, ok := pat.Steps()
		if !ok || s.Sign() <= 0 {
			return Nothing
		}
		pats = append(pats, pat)
		haveAny, acc = lcmSteps(haveAny, acc, &s)
	}
	if !haveAny {
		return Nothing
	}
	steps, ok := acc.Int()
	if !ok || !acc.IsInteger() {
		return Nothing
	}
	var slots []any
	for i := int64(0); i < steps; i++ {
		for _, pat := range pats {
			s, _ := pat.Steps()
			armSteps, intOK := s.Int()
			if !intOK || armSteps <= 0 {
				return Nothing
			}
			j := i % armSteps
			slot := _zoom(Rat(j, armSteps), Rat(j+1, armSteps), pat).WithSteps(R(1))
			slots = append(slots, slot)
		}
	}
	return StepCat(slots...).WithSteps(acc)
}

// Tour steps the pivot through the other patterns: each repetition inserts
// it one position earlier, starting from the end.
func Tour(pivot any, others ...any) Pattern {
	pats := make([]Pattern, len(others))
	for i, o := range others {
		pats[i] = Reify(o)
	}
	pv := Reify(pivot)
	n := len(pats)
	rounds := make([]Pattern, 0, n+1)
	for r := 0; r <= n; r++ {
		at := n - r
		var round []any
		for i, pat := range pats {
			if i == at {
				round = append(round, pv)
			}
			round = append(round, pat)
		}
		if at == n {
			round = append(round, pv)
		}
		rounds = append(rounds, StepCat(round...))
	}
	return SlowCat(rounds...)
}

// StepAlt concatenates stepwise while cycling through alternatives: a group
// contributes its next member on each pass until all groups come around.
func StepAlt(groups ...any) Pattern {
	lists := make([][]Pattern, len(groups))
	cycles := int64(1)
	for i, g := range groups {
		switch items := g.(type) {
		case []any:
			for _, item := range items {
				lists[i] = append(lists[i], Reify(item))
			}
		case []Pattern:
			lists[i] = append(lists[i], items...)
		default:
			lists[i] = []Pattern{Reify(g)}
		}
		if len(lists[i]) == 0 {
			return Nothing
		}
		cycles = lcmInt(cycles, int64(len(lists[i])))
	}
	var items []any
	for c := int64(0); c < cycles; c++ {
		for _, list := range lists {
			items = append(items, list[c%int64(len(list))])
		}
	}
	out := StepCat(items...)
	if s, ok := out.Steps(); ok {
		out = out.WithSteps(s.Div(R(cycles)))
	}
	return out
}

func lcmInt(a, b int64) int64 {
	return a / gcdInt(a, b) * b
}

func gcdInt(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

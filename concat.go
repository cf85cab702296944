package strudel

// Stack plays all patterns at once. Arm order is preserved in the result
// list; steps combine by lcm over the arms that define them.
func Stack(pats ...Pattern) Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, pat := range pats {
			haps = append(haps, pat.Query(st)...)
		}
		return haps
	})
	haveAny, acc := false, Rational{}
	for _, pat := range pats {
		haveAny, acc = lcmSteps(haveAny, acc, pat.steps)
	}
	if haveAny {
		return out.WithSteps(acc)
	}
	return out
}

// SlowCat plays one pattern per cycle, round robin. The time the chosen
// pattern sees is offset so that it never skips cycles: over n patterns,
// pattern i plays its own cycle k on global cycle k*n+i.
func SlowCat(pats ...Pattern) Pattern {
	if len(pats) == 0 {
		return Silence
	}
	n := int64(len(pats))
	out := NewPattern(func(st State) []Hap {
		cycle := st.Span.Begin.Sam()
		idx, _ := cycle.Mod(R(n)).Int()
		pat := pats[idx]
		offset := cycle.Sub(cycle.Div(R(n)).Floor())
		haps := pat.Query(st.SetSpan(st.Span.WithTime(func(t Rational) Rational { return t.Sub(offset) })))
		mapped := make([]Hap, len(haps))
		for i, h := range haps {
			mapped[i] = h.WithSpan(func(s Span) Span {
				return s.WithTime(func(t Rational) Rational { return t.Add(offset) })
			})
		}
		return mapped
	})
	haveAny, acc := false, Rational{}
	for _, pat := range pats {
		haveAny, acc = lcmSteps(haveAny, acc, pat.steps)
	}
	if haveAny {
		out = out.WithSteps(acc)
	}
	return out.splitQueries()
}

// slowCatPrime is slowcat without the offset: the chosen pattern sees the
// true cycle number. firstOf and friends depend on this.
func slowCatPrime(pats ...Pattern) Pattern {
	if len(pats) == 0 {
		return Silence
	}
	n := int64(len(pats))
	out := NewPattern(func(st State) []Hap {
		idx, _ := st.Span.Begin.Sam().Mod(R(n)).Int()
		return pats[idx].Query(st)
	})
	return out.splitQueries()
}

// FastCat squeezes all patterns into a single cycle, in order.
func FastCat(pats ...Pattern) Pattern {
	if len(pats) == 0 {
		return Silence
	}
	return SlowCat(pats...).Fast(int64(len(pats))).WithSteps(R(int64(len(pats))))
}

// timedPat is one weighted arm of a proportional concatenation.
type timedPat struct {
	weight Rational
	pat    Pattern
}

// timeCat lays the arms side by side in one cycle, each occupying time
// proportional to its weight. Zero-weight arms are skipped.
func timeCat(items []timedPat) Pattern {
	total := R(0)
	for _, it := range items {
		if it.weight.Sign() > 0 {
			total = total.Add(it.weight)
		}
	}
	if total.IsZero() {
		return Nothing
	}
	var arms []Pattern
	begin := R(0)
	for _, it := range items {
		if it.weight.Sign() <= 0 {
			continue
		}
		end := begin.Add(it.weight)
		arms = append(arms, it.pat.compressSpan(Span{begin.Div(total), end.Div(total)}))
		begin = end
	}
	return Stack(arms...)
}

// Arranged is one section of an arrangement: a pattern and how many cycles
// it runs for.
type Arranged struct {
	Cycles any
	Pat    any
}

// Arrange plays each section for its number of cycles, then loops the lot.
func Arrange(sections ...Arranged) Pattern {
	items := make([]timedPat, 0, len(sections))
	total := R(0)
	for _, s := range sections {
		cycles, err := toRational(s.Cycles)
		if err != nil {
			logError("invalid section length", err)
			return Silence
		}
		items = append(items, timedPat{cycles, Reify(s.Pat).Fast(cycles)})
		total = total.Add(cycles)
	}
	if total.Sign() <= 0 {
		return Silence
	}
	return timeCat(items).Slow(total)
}

// Windowed is one arm of SeqPLoop: a pattern audible from cycle Begin up to
// cycle End of the loop.
type Windowed struct {
	Begin any
	End   any
	Pat   any
}

// SeqPLoop stacks windowed patterns on a shared timeline and loops the whole
// timeline at the last window's end.
func SeqPLoop(windows ...Windowed) Pattern {
	type win struct {
		begin, end Rational
		pat        Pattern
	}
	var ws []win
	total := R(0)
	for _, w := range windows {
		b, err1 := toRational(w.Begin)
		e, err2 := toRational(w.End)
		if err1 != nil || err2 != nil {
			logError("invalid window bounds", nil)
			return Silence
		}
		if e.Lte(b) {
			continue
		}
		ws = append(ws, win{b, e, Reify(w.Pat)})
		total = total.Max(e)
	}
	if len(ws) == 0 || total.Sign() <= 0 {
		return Silence
	}
	var arms []Pattern
	for _, w := range ws {
		arms = append(arms, w.pat.Late(w.begin).Mask(windowMask(w.begin, w.end, total)))
	}
	return Stack(arms...)
}

// windowMask is true during [begin, end) of every length-total loop.
func windowMask(begin, end, total Rational) Pattern {
	return NewPattern(func(st State) []Hap {
		var haps []Hap
		k := st.Span.Begin.Sub(end).Div(total).Floor()
		for {
			wb := k.Mul(total).Add(begin)
			we := k.Mul(total).Add(end)
			if wb.Gte(st.Span.End) {
				break
			}
			whole := Span{wb, we}
			if part, ok := whole.Intersection(st.Span); ok {
				haps = append(haps, Hap{Whole: &whole, Part: part, Value: true})
			}
			k = k.Add(R(1))
		}
		return haps
	})
}

// Alignment pads the arms of a stepwise stack whose step counts differ.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCentre
)

// StackLeft stacks patterns stepwise, padding shorter arms with a gap on the
// right so they all start together.
func StackLeft(pats ...Pattern) Pattern {
	return stackAligned(AlignLeft, pats)
}

// StackRight pads on the left so the arms end together.
func StackRight(pats ...Pattern) Pattern {
	return stackAligned(AlignRight, pats)
}

// StackCentre pads both sides evenly.
func StackCentre(pats ...Pattern) Pattern {
	return stackAligned(AlignCentre, pats)
}

func stackAligned(align Alignment, pats []Pattern) Pattern {
	max := R(0)
	for _, pat := range pats {
		if s, ok := pat.Steps(); ok && s.Gt(max) {
			max = s
		}
	}
	if max.IsZero() {
		return Stack(pats...)
	}
	arms := make([]Pattern, len(pats))
	for i, pat := range pats {
		s, ok := pat.Steps()
		if !ok || s.Gte(max) {
			arms[i] = pat
			continue
		}
		pad := max.Sub(s)
		switch align {
		case AlignRight:
			arms[i] = StepCat(Gap(pad), pat)
		case AlignCentre:
			half := pad.Div(R(2))
			arms[i] = StepCat(Gap(half), pat, Gap(half))
		default:
			arms[i] = StepCat(pat, Gap(pad))
		}
	}
	return Stack(arms...).WithSteps(max)
}

// StackBy picks the alignment per cycle from a pattern of "left", "right"
// and "centre" names.
func StackBy(by any, pats ...Pattern) Pattern {
	aligned := map[string]Pattern{
		"left":   StackLeft(pats...),
		"right":  StackRight(pats...),
		"centre": StackCentre(pats...),
		"center": StackCentre(pats...),
	}
	plain := Stack(pats...)
	return Reify(by).FMap(func(v any) any {
		name, _ := v.(string)
		if pat, ok := aligned[name]; ok {
			return pat
		}
		return plain
	}).InnerJoin()
}

package strudel

import "fmt"

// Pattern is a pure function from a query State to the timed events inside
// its span. Patterns are immutable values; every combinator returns a new
// one. The optional steps field is the stepwise length: how many discrete
// steps the pattern presents per cycle. The pure sideband remembers the
// constant a pattern was built from, so registration can call plain
// functions directly when every argument is constant.
type Pattern struct {
	Query func(State) []Hap

	steps   *Rational
	hasPure bool
	pureVal any
	pureLoc *Location
}

// NewPattern wraps a query function. The query must be pure and must not
// report events whose part lies outside the queried span.
func NewPattern(query func(State) []Hap) Pattern {
	return Pattern{Query: query}
}

// Steps reports the stepwise length, when defined.
func (p Pattern) Steps() (Rational, bool) {
	if !computeSteps || p.steps == nil {
		return Rational{}, false
	}
	return *p.steps, true
}

// WithSteps returns the pattern declaring the given stepwise length.
func (p Pattern) WithSteps(steps Rational) Pattern {
	if !computeSteps {
		return p
	}
	p.steps = &steps
	return p
}

func (p Pattern) withStepsPtr(steps *Rational) Pattern {
	if !computeSteps {
		return p
	}
	p.steps = steps
	return p
}

func (p Pattern) withoutSteps() Pattern {
	p.steps = nil
	return p
}

// PureValue reports the constant the pattern was built from, if it is an
// unmodified pure.
func (p Pattern) PureValue() (any, bool) {
	return p.pureVal, p.hasPure
}

// QueryArc queries the half-open window [begin, end) with no controls. A
// panic from a user callback inside the pattern is caught and logged, and
// the query reports no events.
func (p Pattern) QueryArc(begin, end Rational) []Hap {
	return p.QueryArcControls(begin, end, nil)
}

// QueryArcControls queries [begin, end) with host controls.
func (p Pattern) QueryArcControls(begin, end Rational, controls map[string]any) (haps []Hap) {
	defer func() {
		if r := recover(); r != nil {
			logError(fmt.Sprintf("query [%v, %v) failed", begin, end), r)
			haps = nil
		}
	}()
	return p.Query(State{Span: NewSpan(begin, end), Controls: controls})
}

// FirstCycle is shorthand for querying [0, 1), sorted for inspection.
func (p Pattern) FirstCycle() []Hap {
	return SortHapsByPart(p.QueryArc(R(0), R(1)))
}

// withQuerySpan maps the query span before querying.
func (p Pattern) withQuerySpan(f func(Span) Span) Pattern {
	out := NewPattern(func(st State) []Hap {
		return p.Query(st.WithSpan(f))
	})
	return out.withStepsPtr(p.steps)
}

func (p Pattern) withQueryTime(f func(Rational) Rational) Pattern {
	return p.withQuerySpan(func(s Span) Span { return s.WithTime(f) })
}

// withHapSpan maps every resulting hap's spans.
func (p Pattern) withHapSpan(f func(Span) Span) Pattern {
	out := NewPattern(func(st State) []Hap {
		haps := p.Query(st)
		mapped := make([]Hap, len(haps))
		for i, h := range haps {
			mapped[i] = h.WithSpan(f)
		}
		return mapped
	})
	return out.withStepsPtr(p.steps)
}

func (p Pattern) withHapTime(f func(Rational) Rational) Pattern {
	return p.withHapSpan(func(s Span) Span { return s.WithTime(f) })
}

// FMap maps values only, preserving structure and steps.
func (p Pattern) FMap(f func(any) any) Pattern {
	out := NewPattern(func(st State) []Hap {
		haps := p.Query(st)
		mapped := make([]Hap, len(haps))
		for i, h := range haps {
			mapped[i] = h.WithValue(f)
		}
		return mapped
	})
	return out.withStepsPtr(p.steps)
}

// WithHaps maps the whole result list of every query.
func (p Pattern) WithHaps(f func([]Hap) []Hap) Pattern {
	out := NewPattern(func(st State) []Hap {
		return f(p.Query(st))
	})
	return out.withStepsPtr(p.steps)
}

// withHapsState is WithHaps with access to the query state; splice and fit
// need the controls to read the host tempo.
func (p Pattern) withHapsState(f func([]Hap, State) []Hap) Pattern {
	out := NewPattern(func(st State) []Hap {
		return f(p.Query(st), st)
	})
	return out.withStepsPtr(p.steps)
}

// FilterHaps keeps the events satisfying the predicate.
func (p Pattern) FilterHaps(f func(Hap) bool) Pattern {
	return p.WithHaps(func(haps []Hap) []Hap {
		var out []Hap
		for _, h := range haps {
			if f(h) {
				out = append(out, h)
			}
		}
		return out
	})
}

// FilterValues keeps the events whose value satisfies the predicate.
func (p Pattern) FilterValues(f func(any) bool) Pattern {
	return p.FilterHaps(func(h Hap) bool { return f(h.Value) })
}

// filterWhen keeps events by the time their whole (or part) begins.
func (p Pattern) filterWhen(f func(Rational) bool) Pattern {
	return p.FilterHaps(func(h Hap) bool { return f(h.WholeOrPart().Begin) })
}

// Onsets keeps only the events whose onset is inside the query.
func (p Pattern) Onsets() Pattern {
	return p.FilterHaps(Hap.HasOnset)
}

// Discrete keeps only the events that have a whole.
func (p Pattern) Discrete() Pattern {
	return p.FilterHaps(func(h Hap) bool { return h.Whole != nil })
}

// splitQueries reissues the query once per cycle-crossing sub-span, so the
// wrapped query only ever sees spans within a single cycle.
func (p Pattern) splitQueries() Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, span := range st.Span.SpanCycles() {
			haps = append(haps, p.Query(st.SetSpan(span))...)
		}
		return haps
	})
	return out.withStepsPtr(p.steps)
}

// OnTrigger appends a host callback to every event's context. Prior triggers
// keep firing before the new one.
func (p Pattern) OnTrigger(f Trigger) Pattern {
	return p.WithHaps(func(haps []Hap) []Hap {
		out := make([]Hap, len(haps))
		for i, h := range haps {
			out[i] = h.WithContext(func(c Context) Context {
				c.OnTrigger = append(append([]Trigger(nil), c.OnTrigger...), f)
				return c
			})
		}
		return out
	})
}

// Color sets the display color carried in every event's context.
func (p Pattern) Color(color string) Pattern {
	return p.WithHaps(func(haps []Hap) []Hap {
		out := make([]Hap, len(haps))
		for i, h := range haps {
			out[i] = h.WithContext(func(c Context) Context {
				c.Color = color
				return c
			})
		}
		return out
	})
}

// Tag appends a user tag to every event's context.
func (p Pattern) Tag(tag string) Pattern {
	return p.WithHaps(func(haps []Hap) []Hap {
		out := make([]Hap, len(haps))
		for i, h := range haps {
			out[i] = h.WithContext(func(c Context) Context {
				c.Tags = append(append([]string(nil), c.Tags...), tag)
				return c
			})
		}
		return out
	})
}

// WithLocation tags every event with a source location. On a pure pattern
// the location also travels in the sideband, so registration can preserve it
// when collapsing all-pure argument lists.
func (p Pattern) WithLocation(loc Location) Pattern {
	out := p.WithHaps(func(haps []Hap) []Hap {
		mapped := make([]Hap, len(haps))
		for i, h := range haps {
			mapped[i] = h.WithContext(func(c Context) Context {
				c.Locations = append(append([]Location(nil), c.Locations...), loc)
				return c
			})
		}
		return mapped
	})
	if p.hasPure {
		out.hasPure = true
		out.pureVal = p.pureVal
		out.pureLoc = &loc
	}
	return out
}

// Pure repeats a single value once per cycle. The event's whole is the full
// cycle it falls in.
func Pure(value any) Pattern {
	out := NewPattern(func(st State) []Hap {
		var haps []Hap
		for _, span := range st.Span.SpanCycles() {
			whole := span.Begin.WholeCycle()
			haps = append(haps, Hap{Whole: &whole, Part: span, Value: value})
		}
		return haps
	})
	out = out.WithSteps(R(1))
	out.hasPure = true
	out.pureVal = value
	return out
}

// Gap is an empty pattern that still occupies the given number of steps.
func Gap(steps Rational) Pattern {
	out := NewPattern(func(State) []Hap { return nil })
	return out.WithSteps(steps)
}

// Silence is the continuous neutral element: no events, one step.
var Silence = Gap(R(1))

// Nothing is the stepwise neutral element: no events, zero steps. The
// distinction from Silence is load-bearing in the stepwise operators; do not
// unify them.
var Nothing = Gap(R(0))

// Signal lifts a function of time into a continuous pattern. Each query
// reports one whole-less event valued at the span's beginning.
func Signal(f func(Rational) any) Pattern {
	return NewPattern(func(st State) []Hap {
		return []Hap{{Part: st.Span, Value: f(st.Span.Begin)}}
	})
}

// Steady is a constant continuous pattern.
func Steady(value any) Pattern {
	return Signal(func(Rational) any { return value })
}

// Reify coerces a value into a pattern: patterns pass through, strings go
// through the registered mini-notation parser when one is installed, and
// anything else becomes a pure. A parse failure logs and yields Silence.
func Reify(value any) Pattern {
	switch v := value.(type) {
	case Pattern:
		return v
	case *Pattern:
		return *v
	case string:
		if stringParser != nil {
			pat, err := stringParser(v)
			if err != nil {
				logError(fmt.Sprintf("cannot parse %q", v), err)
				return Silence
			}
			return pat
		}
		return Pure(v)
	default:
		return Pure(v)
	}
}

// Sequence is fastcat over reified values: one cycle, equal slots.
func Sequence(values ...any) Pattern {
	pats := make([]Pattern, len(values))
	for i, v := range values {
		pats[i] = Reify(v)
	}
	return FastCat(pats...)
}

// sequenceArgs collapses a variadic argument list into one pattern: a single
// argument reifies, several become a sequence.
func sequenceArgs(args []any) Pattern {
	if len(args) == 1 {
		return Reify(args[0])
	}
	return Sequence(args...)
}

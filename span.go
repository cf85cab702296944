package strudel

import "fmt"

// Span is a half-open time interval [Begin, End) over Rationals. Zero-width
// spans are legal; they appear as point queries inside the outer join.
type Span struct {
	Begin Rational
	End   Rational
}

// NewSpan builds a span, swapping the endpoints if they arrive reversed so
// that Begin <= End always holds.
func NewSpan(begin, end Rational) Span {
	if begin.Gt(end) {
		return Span{end, begin}
	}
	return Span{begin, end}
}

func (s Span) Equal(o Span) bool {
	return s.Begin.Equal(o.Begin) && s.End.Equal(o.End)
}

func (s Span) Duration() Rational { return s.End.Sub(s.Begin) }

// WithTime maps both endpoints through f.
func (s Span) WithTime(f func(Rational) Rational) Span {
	return NewSpan(f(s.Begin), f(s.End))
}

// WithEnd maps only the end point.
func (s Span) WithEnd(f func(Rational) Rational) Span {
	return NewSpan(s.Begin, f(s.End))
}

// WithCycle maps both endpoints through f relative to the cycle containing
// Begin: t -> sam + f(t - sam).
func (s Span) WithCycle(f func(Rational) Rational) Span {
	sam := s.Begin.Sam()
	return NewSpan(sam.Add(f(s.Begin.Sub(sam))), sam.Add(f(s.End.Sub(sam))))
}

// Intersection returns the overlap of two spans. Spans that merely touch at
// an endpoint do not intersect, except that a zero-width span intersects a
// span it begins in.
func (s Span) Intersection(o Span) (Span, bool) {
	begin := s.Begin.Max(o.Begin)
	end := s.End.Min(o.End)
	if begin.Gt(end) {
		return Span{}, false
	}
	if begin.Equal(end) {
		if begin.Equal(s.End) && s.Begin.Lt(s.End) {
			return Span{}, false
		}
		if begin.Equal(o.End) && o.Begin.Lt(o.End) {
			return Span{}, false
		}
	}
	return Span{begin, end}, true
}

// Sect clips two spans to each other without the emptiness checks of
// Intersection. Callers must know the spans overlap.
func (s Span) Sect(o Span) Span {
	return Span{s.Begin.Max(o.Begin), s.End.Min(o.End)}
}

// SpanCycles splits the span at every integer boundary strictly inside it.
// The concatenation of the result equals the original span. A zero-width
// span yields itself.
func (s Span) SpanCycles() []Span {
	if s.Begin.Equal(s.End) {
		return []Span{s}
	}
	var spans []Span
	begin := s.Begin
	for begin.Lt(s.End) {
		end := begin.NextSam().Min(s.End)
		spans = append(spans, Span{begin, end})
		begin = end
	}
	return spans
}

// CycleSpan restricts the span to the cycle containing Begin.
func (s Span) CycleSpan() Span {
	return Span{s.Begin, s.End.Min(s.Begin.NextSam())}
}

func (s Span) String() string {
	return fmt.Sprintf("[%v, %v)", s.Begin, s.End)
}

package strudel_test

import (
	"testing"

	strudel "github.com/gemini-it/strudel"
)

func span(b, e strudel.Rational) strudel.Span { return strudel.Span{Begin: b, End: e} }

func TestSpanIntersection(t *testing.T) {
	r := strudel.Rat
	tests := []struct {
		name     string
		a, b     strudel.Span
		expected string
		ok       bool
	}{
		{"overlap", span(r(0, 1), r(1, 2)), span(r(1, 4), r(3, 4)), "[1/4, 1/2)", true},
		{"containment", span(r(0, 1), r(1, 1)), span(r(1, 4), r(1, 2)), "[1/4, 1/2)", true},
		{"disjoint", span(r(0, 1), r(1, 4)), span(r(1, 2), r(1, 1)), "", false},
		{"adjacent", span(r(0, 1), r(1, 2)), span(r(1, 2), r(1, 1)), "", false},
		{"zero width inside", span(r(1, 4), r(1, 4)), span(r(0, 1), r(1, 1)), "[1/4, 1/4)", true},
		{"zero width at end", span(r(1, 1), r(1, 1)), span(r(0, 1), r(1, 1)), "", false},
	}
	for _, test := range tests {
		got, ok := test.a.Intersection(test.b)
		if ok != test.ok {
			t.Errorf("%s: ok = %v, expected %v", test.name, ok, test.ok)
			continue
		}
		if ok && got.String() != test.expected {
			t.Errorf("%s: got %v, expected %v", test.name, got, test.expected)
		}
		// Intersection commutes.
		swapped, ok2 := test.b.Intersection(test.a)
		if ok2 != ok || (ok && !swapped.Equal(got)) {
			t.Errorf("%s: intersection is not commutative", test.name)
		}
	}
}

func TestSpanCycles(t *testing.T) {
	r := strudel.Rat
	spans := span(r(1, 2), r(5, 2)).SpanCycles()
	expected := []string{"[1/2, 1)", "[1, 2)", "[2, 5/2)"}
	if len(spans) != len(expected) {
		t.Fatalf("got %d spans, expected %d", len(spans), len(expected))
	}
	for i, s := range spans {
		if s.String() != expected[i] {
			t.Errorf("span %d: got %v, expected %v", i, s, expected[i])
		}
	}
	// Concatenated they equal the original.
	if !spans[0].Begin.Equal(r(1, 2)) || !spans[len(spans)-1].End.Equal(r(5, 2)) {
		t.Errorf("concatenation does not cover the original span")
	}
	for i := 1; i < len(spans); i++ {
		if !spans[i-1].End.Equal(spans[i].Begin) {
			t.Errorf("gap between spans %d and %d", i-1, i)
		}
	}
}

func TestSpanCyclesZeroWidth(t *testing.T) {
	s := span(strudel.R(1), strudel.R(1))
	spans := s.SpanCycles()
	if len(spans) != 1 || !spans[0].Equal(s) {
		t.Errorf("zero-width span should yield itself, got %v", spans)
	}
}

func TestCycleSpan(t *testing.T) {
	r := strudel.Rat
	got := span(r(1, 2), r(5, 2)).CycleSpan()
	if got.String() != "[1/2, 1)" {
		t.Errorf("got %v, expected [1/2, 1)", got)
	}
}

func TestSpanWithCycle(t *testing.T) {
	r := strudel.Rat
	got := span(r(9, 4), r(5, 2)).WithCycle(func(t strudel.Rational) strudel.Rational {
		return t.Mul(strudel.R(2))
	})
	if got.String() != "[5/2, 3)" {
		t.Errorf("got %v, expected [5/2, 3)", got)
	}
}

package strudel_test

import (
	"testing"

	strudel "github.com/gemini-it/strudel"
)

func TestCompress(t *testing.T) {
	got := queryCycle(t, strudel.Pure("x").Compress(strudel.Rat(1, 4), strudel.Rat(3, 4)))
	assertHaps(t, got, []string{"[1/4, 3/4) [1/4, 3/4) x"})
}

func TestCompressDegenerate(t *testing.T) {
	for name, p := range map[string]strudel.Pattern{
		"empty":    strudel.Pure("x").Compress(strudel.Rat(1, 2), strudel.Rat(1, 2)),
		"reversed": strudel.Pure("x").Compress(strudel.Rat(3, 4), strudel.Rat(1, 4)),
		"outside":  strudel.Pure("x").Compress(strudel.Rat(1, 2), strudel.Rat(3, 2)),
	} {
		if haps := p.QueryArc(strudel.R(0), strudel.R(1)); len(haps) != 0 {
			t.Errorf("%s: degenerate compress should be silence, got %v", name, haps)
		}
	}
}

func TestFastGap(t *testing.T) {
	got := queryCycle(t, strudel.Sequence("a", "b").FastGap(2))
	assertHaps(t, got, []string{"[0, 1/4) [0, 1/4) a", "[1/4, 1/2) [1/4, 1/2) b"})
	// The second cycle has the same shape.
	haps := strudel.Sequence("a", "b").FastGap(2).QueryArc(strudel.R(1), strudel.R(2))
	if len(haps) != 2 {
		t.Errorf("expected 2 haps in the second cycle, got %d", len(haps))
	}
}

func TestZoom(t *testing.T) {
	p := strudel.Sequence("a", "b", "c", "d").Zoom(strudel.Rat(1, 4), strudel.Rat(3, 4))
	assertHaps(t, queryCycle(t, p), []string{"[0, 1/2) [0, 1/2) b", "[1/2, 1) [1/2, 1) c"})
}

func TestZoomSteps(t *testing.T) {
	p := strudel.Pure(1).Zoom(strudel.Rat(1, 4), strudel.Rat(3, 4))
	steps, ok := p.Steps()
	if !ok || !steps.Equal(strudel.Rat(1, 2)) {
		t.Errorf("zoom by a half should halve steps, got %v (%v)", steps, ok)
	}
	if haps := strudel.Pure(1).Zoom(strudel.Rat(1, 2), strudel.Rat(1, 2)).QueryArc(strudel.R(0), strudel.R(1)); len(haps) != 0 {
		t.Errorf("degenerate zoom should be nothing")
	}
}

func TestFocusKeepsPlaying(t *testing.T) {
	// Unlike compress, focus fills the whole cycle at the faster rate.
	p := strudel.Pure("x").Focus(strudel.Rat(1, 4), strudel.Rat(3, 4))
	haps := p.QueryArc(strudel.R(0), strudel.R(1))
	if len(haps) == 0 {
		t.Fatalf("focus should not leave gaps")
	}
	total := strudel.R(0)
	for _, h := range haps {
		total = total.Add(h.Part.Duration())
	}
	if !total.Equal(strudel.R(1)) {
		t.Errorf("focus should cover the cycle, covered %v", total)
	}
}

func TestEvery(t *testing.T) {
	p := strudel.Sequence("a", "b").Every(2, strudel.Pattern.Rev)
	got := hapStrings(p.QueryArc(strudel.R(0), strudel.R(2)))
	assertHaps(t, got, []string{
		"[0, 1/2) [0, 1/2) b",
		"[1/2, 1) [1/2, 1) a",
		"[1, 3/2) [1, 3/2) a",
		"[3/2, 2) [3/2, 2) b",
	})
}

func TestLastOf(t *testing.T) {
	p := strudel.Sequence("a", "b").LastOf(2, strudel.Pattern.Rev)
	got := hapStrings(p.QueryArc(strudel.R(0), strudel.R(2)))
	assertHaps(t, got, []string{
		"[0, 1/2) [0, 1/2) a",
		"[1/2, 1) [1/2, 1) b",
		"[1, 3/2) [1, 3/2) b",
		"[3/2, 2) [3/2, 2) a",
	})
}

func TestIter(t *testing.T) {
	p := strudel.Sequence("a", "b", "c", "d").Iter(4)
	first := hapStrings(p.QueryArc(strudel.R(0), strudel.R(1)))
	assertHaps(t, first, []string{
		"[0, 1/4) [0, 1/4) a",
		"[1/4, 1/2) [1/4, 1/2) b",
		"[1/2, 3/4) [1/2, 3/4) c",
		"[3/4, 1) [3/4, 1) d",
	})
	second := hapStrings(p.QueryArc(strudel.R(1), strudel.R(2)))
	assertHaps(t, second, []string{
		"[1, 5/4) [1, 5/4) b",
		"[5/4, 3/2) [5/4, 3/2) c",
		"[3/2, 7/4) [3/2, 7/4) d",
		"[7/4, 2) [7/4, 2) a",
	})
}

func TestRepeatCycles(t *testing.T) {
	p := strudel.SlowCat(strudel.Pure("a"), strudel.Pure("b")).RepeatCycles(2)
	got := hapStrings(p.QueryArc(strudel.R(0), strudel.R(4)))
	assertHaps(t, got, []string{
		"[0, 1) [0, 1) a",
		"[1, 2) [1, 2) a",
		"[2, 3) [2, 3) b",
		"[3, 4) [3, 4) b",
	})
}

func TestOff(t *testing.T) {
	p := strudel.Pure("a").Off(strudel.Rat(1, 4), func(q strudel.Pattern) strudel.Pattern { return q })
	got := queryCycle(t, p)
	assertHaps(t, got, []string{"[-3/4, 1/4) [0, 1/4) a", "[0, 1) [0, 1) a", "[1/4, 5/4) [1/4, 1) a"})
}

func TestWhen(t *testing.T) {
	bang := func(q strudel.Pattern) strudel.Pattern {
		return q.FMap(func(v any) any { return v.(string) + "!" })
	}
	p := strudel.Sequence("a", "b").When(strudel.Sequence(true, false), bang)
	assertHaps(t, queryCycle(t, p), []string{"[0, 1/2) [0, 1/2) a!", "[1/2, 1) [1/2, 1) b"})
}

func TestWithin(t *testing.T) {
	bang := func(q strudel.Pattern) strudel.Pattern {
		return q.FMap(func(v any) any { return v.(string) + "!" })
	}
	p := strudel.Sequence("a", "b", "c", "d").Within(strudel.R(0), strudel.Rat(1, 2), bang)
	assertHaps(t, queryCycle(t, p), []string{
		"[0, 1/4) [0, 1/4) a!",
		"[1/4, 1/2) [1/4, 1/2) b!",
		"[1/2, 3/4) [1/2, 3/4) c",
		"[3/4, 1) [3/4, 1) d",
	})
}

func TestLinger(t *testing.T) {
	p := strudel.Sequence("a", "b", "c", "d").Linger(strudel.Rat(1, 2))
	assertHaps(t, queryCycle(t, p), []string{
		"[0, 1/4) [0, 1/4) a",
		"[1/4, 1/2) [1/4, 1/2) b",
		"[1/2, 3/4) [1/2, 3/4) a",
		"[3/4, 1) [3/4, 1) b",
	})
}

func TestInsideOutside(t *testing.T) {
	p := strudel.Sequence("a", "b")
	inside := p.Inside(2, func(q strudel.Pattern) strudel.Pattern { return q })
	assertHaps(t, queryCycle(t, inside), queryCycle(t, p))
	outside := p.Outside(2, func(q strudel.Pattern) strudel.Pattern { return q })
	assertHaps(t, queryCycle(t, outside), queryCycle(t, p))
}

func TestChunk(t *testing.T) {
	bang := func(q strudel.Pattern) strudel.Pattern {
		return q.FMap(func(v any) any { return v.(string) + "!" })
	}
	p := strudel.Sequence("a", "b").Chunk(2, bang)
	got := hapStrings(p.QueryArc(strudel.R(0), strudel.R(2)))
	assertHaps(t, got, []string{
		"[0, 1/2) [0, 1/2) a!",
		"[1/2, 1) [1/2, 1) b",
		"[1, 3/2) [1, 3/2) a",
		"[3/2, 2) [3/2, 2) b!",
	})
}

func TestSegment(t *testing.T) {
	p := strudel.Saw.Segment(4)
	haps := strudel.SortHapsByPart(p.QueryArc(strudel.R(0), strudel.R(1)))
	if len(haps) != 4 {
		t.Fatalf("expected 4 segments, got %d", len(haps))
	}
	for i, h := range haps {
		if h.Whole == nil {
			t.Fatalf("segment %d still continuous", i)
		}
		if !h.Whole.Duration().Equal(strudel.Rat(1, 4)) {
			t.Errorf("segment %d duration %v", i, h.Whole.Duration())
		}
	}
	if steps, ok := p.Steps(); !ok || !steps.Equal(strudel.R(4)) {
		t.Errorf("segment should define steps")
	}
}

func TestRibbonLoops(t *testing.T) {
	src := strudel.SlowCat(strudel.Pure("a"), strudel.Pure("b"), strudel.Pure("c"), strudel.Pure("d"))
	p := src.Ribbon(strudel.R(1), strudel.R(2))
	got := hapStrings(p.QueryArc(strudel.R(0), strudel.R(4)))
	assertHaps(t, got, []string{
		"[0, 1) [0, 1) b",
		"[1, 2) [1, 2) c",
		"[2, 3) [2, 3) b",
		"[3, 4) [3, 4) c",
	})
}

func TestRibbonIdempotent(t *testing.T) {
	src := strudel.SlowCat(strudel.Pure("a"), strudel.Pure("b"), strudel.Pure("c"), strudel.Pure("d"))
	once := src.Ribbon(strudel.R(2), strudel.R(2))
	twice := once.Ribbon(strudel.R(2), strudel.R(2))
	a := hapStrings(once.QueryArc(strudel.R(0), strudel.R(4)))
	b := hapStrings(twice.QueryArc(strudel.R(0), strudel.R(4)))
	if len(a) == 0 {
		t.Fatalf("ribbon produced nothing")
	}
	assertHaps(t, b, a)
}

func TestFastZeroIsSilence(t *testing.T) {
	if haps := strudel.Pure("x").Fast(0).QueryArc(strudel.R(0), strudel.R(1)); len(haps) != 0 {
		t.Errorf("fast(0) should be silence, got %v", haps)
	}
}

func TestFastNegativeReverses(t *testing.T) {
	a := queryCycle(t, strudel.Sequence("a", "b").Fast(-1))
	b := queryCycle(t, strudel.Sequence("a", "b").Rev())
	assertHaps(t, a, b)
}

func TestPatternedFast(t *testing.T) {
	// A patterned factor applies per factor event.
	p := strudel.Pure("x").Fast(strudel.Sequence(1, 2))
	haps := strudel.SortHapsByPart(p.QueryArc(strudel.R(0), strudel.R(1)))
	// One whole-cycle fragment under fast(1), one half-cycle event under
	// fast(2).
	if len(haps) != 2 {
		t.Fatalf("expected 2 haps, got %d: %v", len(haps), haps)
	}
	if !haps[1].HasOnset() {
		t.Errorf("the fast(2) event should have its onset in the second half")
	}
}

func TestSuperimpose(t *testing.T) {
	p := strudel.Pure("a").Superimpose(func(q strudel.Pattern) strudel.Pattern {
		return q.Fast(2)
	})
	got := queryCycle(t, p)
	assertHaps(t, got, []string{"[0, 1/2) [0, 1/2) a", "[0, 1) [0, 1) a", "[1/2, 1) [1/2, 1) a"})
}

func TestPalindrome(t *testing.T) {
	p := strudel.Sequence("a", "b").Palindrome()
	got := hapStrings(p.QueryArc(strudel.R(0), strudel.R(2)))
	assertHaps(t, got, []string{
		"[0, 1/2) [0, 1/2) a",
		"[1/2, 1) [1/2, 1) b",
		"[1, 3/2) [1, 3/2) b",
		"[3/2, 2) [3/2, 2) a",
	})
}

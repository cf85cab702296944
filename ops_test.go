package strudel_test

import (
	"reflect"
	"testing"

	strudel "github.com/gemini-it/strudel"
)

func TestAddNumbers(t *testing.T) {
	got := queryCycle(t, strudel.Sequence(1, 2).Add(10))
	assertHaps(t, got, []string{"[0, 1/2) [0, 1/2) 11", "[1/2, 1) [1/2, 1) 12"})
}

func TestAddStructureIn(t *testing.T) {
	// Structure from the left: four events sampling the two addends.
	got := queryCycle(t, strudel.Sequence(1, 2, 3, 4).Add(strudel.Sequence(10, 20)))
	assertHaps(t, got, []string{
		"[0, 1/4) [0, 1/4) 11",
		"[1/4, 1/2) [1/4, 1/2) 12",
		"[1/2, 3/4) [1/2, 3/4) 23",
		"[3/4, 1) [3/4, 1) 24",
	})
}

func TestAddStructureOut(t *testing.T) {
	got := queryCycle(t, strudel.Sequence(1, 2, 3, 4).Op("add", strudel.HowOut, strudel.Sequence(10, 20)))
	// Wholes come from the right; the left pattern fragments them.
	assertHaps(t, got, []string{
		"[0, 1/2) [0, 1/4) 11",
		"[0, 1/2) [1/4, 1/2) 12",
		"[1/2, 1) [1/2, 3/4) 23",
		"[1/2, 1) [3/4, 1) 24",
	})
}

func TestAddStructureMix(t *testing.T) {
	got := queryCycle(t, strudel.Sequence(1, 2).Op("add", strudel.HowMix, strudel.Sequence(10, 20, 30)))
	assertHaps(t, got, []string{
		"[0, 1/3) [0, 1/3) 11",
		"[1/3, 1/2) [1/3, 1/2) 21",
		"[1/2, 2/3) [1/2, 2/3) 22",
		"[2/3, 1) [2/3, 1) 32",
	})
}

func TestAddRecords(t *testing.T) {
	a := strudel.Pure(map[string]any{"n": int64(3), "gain": 0.5})
	b := strudel.Pure(map[string]any{"n": int64(12), "pan": 0.2})
	haps := a.Add(b).QueryArc(strudel.R(0), strudel.R(1))
	if len(haps) != 1 {
		t.Fatalf("expected one event, got %d", len(haps))
	}
	expected := map[string]any{"n": int64(15), "gain": 0.5, "pan": 0.2}
	if !reflect.DeepEqual(haps[0].Value, expected) {
		t.Errorf("got %v, expected %v", haps[0].Value, expected)
	}
}

func TestSetRecordsRightBiased(t *testing.T) {
	a := strudel.Pure(map[string]any{"s": "bd", "gain": 0.5})
	haps := a.Set(strudel.Pure(map[string]any{"gain": 0.9})).QueryArc(strudel.R(0), strudel.R(1))
	expected := map[string]any{"s": "bd", "gain": 0.9}
	if !reflect.DeepEqual(haps[0].Value, expected) {
		t.Errorf("got %v, expected %v", haps[0].Value, expected)
	}
}

func TestKeepRecordsLeftBiased(t *testing.T) {
	a := strudel.Pure(map[string]any{"s": "bd", "gain": 0.5})
	haps := a.Keep(strudel.Pure(map[string]any{"gain": 0.9, "pan": 0.1})).QueryArc(strudel.R(0), strudel.R(1))
	expected := map[string]any{"s": "bd", "gain": 0.5, "pan": 0.1}
	if !reflect.DeepEqual(haps[0].Value, expected) {
		t.Errorf("got %v, expected %v", haps[0].Value, expected)
	}
}

func TestStructTakesBoolStructure(t *testing.T) {
	got := queryCycle(t, strudel.Pure("x").Struct(strudel.Sequence(true, false, true, false)))
	assertHaps(t, got, []string{"[0, 1/4) [0, 1/4) x", "[1/2, 3/4) [1/2, 3/4) x"})
}

func TestMaskKeepsEventStructure(t *testing.T) {
	got := queryCycle(t, strudel.Sequence("a", "b", "c", "d").Mask(strudel.Sequence(true, false)))
	assertHaps(t, got, []string{"[0, 1/4) [0, 1/4) a", "[1/4, 1/2) [1/4, 1/2) b"})
}

func TestComparisons(t *testing.T) {
	got := queryCycle(t, strudel.Sequence(1, 5).Op("lt", strudel.HowIn, 3))
	assertHaps(t, got, []string{"[0, 1/2) [0, 1/2) true", "[1/2, 1) [1/2, 1) false"})
}

func TestBitwise(t *testing.T) {
	got := queryCycle(t, strudel.Sequence(6, 5).Op("band", strudel.HowIn, 3))
	assertHaps(t, got, []string{"[0, 1/2) [0, 1/2) 2", "[1/2, 1) [1/2, 1) 1"})
}

func TestUnknownOpIsSilence(t *testing.T) {
	var logged bool
	strudel.SetLogger(func(msg string, level strudel.LogLevel, data any) { logged = true })
	defer strudel.SetLogger(nil)
	if haps := strudel.Pure(1).Op("frobnicate", strudel.HowIn, 2).QueryArc(strudel.R(0), strudel.R(1)); len(haps) != 0 {
		t.Errorf("unknown op should be silence")
	}
	if !logged {
		t.Errorf("unknown op should log")
	}
}

func TestSqueezeOp(t *testing.T) {
	// The right pattern squeezes into each left event.
	got := queryCycle(t, strudel.Sequence(10, 20).Op("add", strudel.HowSqueeze, strudel.Sequence(1, 2)))
	assertHaps(t, got, []string{
		"[0, 1/4) [0, 1/4) 11",
		"[1/4, 1/2) [1/4, 1/2) 12",
		"[1/2, 3/4) [1/2, 3/4) 21",
		"[3/4, 1) [3/4, 1) 22",
	})
}

func TestControlConstructors(t *testing.T) {
	haps := strudel.Sound("bd").QueryArc(strudel.R(0), strudel.R(1))
	expected := map[string]any{"s": "bd"}
	if !reflect.DeepEqual(haps[0].Value, expected) {
		t.Errorf("got %v, expected %v", haps[0].Value, expected)
	}
	// Aliases resolve to the canonical field.
	haps = strudel.Control("sound", "sn").QueryArc(strudel.R(0), strudel.R(1))
	if !reflect.DeepEqual(haps[0].Value, expected2()) {
		t.Errorf("alias did not canonicalize: %v", haps[0].Value)
	}
}

func expected2() map[string]any { return map[string]any{"s": "sn"} }

func TestWithControl(t *testing.T) {
	haps := strudel.Sound("bd").WithControl("gain", 0.8).QueryArc(strudel.R(0), strudel.R(1))
	expected := map[string]any{"s": "bd", "gain": 0.8}
	if !reflect.DeepEqual(haps[0].Value, expected) {
		t.Errorf("got %v, expected %v", haps[0].Value, expected)
	}
}

func TestUnknownControl(t *testing.T) {
	var logged bool
	strudel.SetLogger(func(msg string, level strudel.LogLevel, data any) { logged = true })
	defer strudel.SetLogger(nil)
	if haps := strudel.Control("wibble", 1).QueryArc(strudel.R(0), strudel.R(1)); len(haps) != 0 {
		t.Errorf("unknown control should be silence")
	}
	if !logged {
		t.Errorf("unknown control should log")
	}
}

func TestRegisteredOpByName(t *testing.T) {
	op, ok := strudel.LookupOp("fast")
	if !ok {
		t.Fatalf("fast should be registered")
	}
	p, err := op.Apply(2, strudel.Pure(1))
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	assertHaps(t, queryCycle(t, p), queryCycle(t, strudel.Pure(1).Fast(2)))
	if _, err := op.Apply(2); err == nil {
		t.Errorf("wrong arity should fail loudly")
	}
}

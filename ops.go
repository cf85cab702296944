package strudel

import (
	"fmt"
	"math"
)

// The operator matrix: every value operation crossed with every structure
// discipline. The table drives both the Go methods below and the by-name
// registry, so adding an operation is one entry, not eight methods.

// How selects where a binary operator takes its structure from.
type How int

const (
	HowIn         How = iota // structure from the left
	HowOut                   // structure from the right
	HowMix                   // structure from both
	HowSqueeze               // right squeezed into left events
	HowSqueezeOut            // left squeezed into right events
	HowReset                 // right re-aligned at left onsets
	HowRestart               // right restarted at left onsets
	HowPoly                  // right paced to the left's steps
)

// dropValue marks results that prune the event entirely; keepIf produces it.
type dropSentinel struct{}

var dropValue any = dropSentinel{}

type opFunc func(a, b any) any

var opTable = map[string]opFunc{
	"add":     numericOp(func(a, b float64) any { return a + b }, func(a, b int64) any { return a + b }),
	"sub":     numericOp(func(a, b float64) any { return a - b }, func(a, b int64) any { return a - b }),
	"mul":     numericOp(func(a, b float64) any { return a * b }, func(a, b int64) any { return a * b }),
	"div":     numericOp(func(a, b float64) any { return a / b }, nil),
	"mod":     numericOp(func(a, b float64) any { return math.Mod(math.Mod(a, b)+b, b) }, func(a, b int64) any { return ((a % b) + b) % b }),
	"pow":     numericOp(func(a, b float64) any { return math.Pow(a, b) }, nil),
	"band":    intOp(func(a, b int64) any { return a & b }),
	"bor":     intOp(func(a, b int64) any { return a | b }),
	"bxor":    intOp(func(a, b int64) any { return a ^ b }),
	"blshift": intOp(func(a, b int64) any { return a << uint(b&63) }),
	"brshift": intOp(func(a, b int64) any { return a >> uint(b&63) }),
	"lt":      cmpOp(func(c int) bool { return c < 0 }),
	"gt":      cmpOp(func(c int) bool { return c > 0 }),
	"lte":     cmpOp(func(c int) bool { return c <= 0 }),
	"gte":     cmpOp(func(c int) bool { return c >= 0 }),
	"eq":      cmpOp(func(c int) bool { return c == 0 }),
	"ne":      cmpOp(func(c int) bool { return c != 0 }),
	"and": func(a, b any) any {
		if truthy(a) {
			return b
		}
		return a
	},
	"or": func(a, b any) any {
		if truthy(a) {
			return a
		}
		return b
	},
	"set": func(a, b any) any {
		if am, ok := asRecord(a); ok {
			if bm, ok := asRecord(b); ok {
				return unionWith(func(_, bv any) any { return bv }, am, bm)
			}
		}
		return b
	},
	"keep": func(a, b any) any {
		if am, ok := asRecord(a); ok {
			if bm, ok := asRecord(b); ok {
				return unionWith(func(_, av any) any { return av }, bm, am)
			}
		}
		return a
	},
	"keepif": func(a, b any) any {
		if truthy(b) {
			return a
		}
		return dropValue
	},
	"func": func(a, b any) any {
		if f, ok := b.(func(any) any); ok {
			return f(a)
		}
		if f, ok := a.(func(any) any); ok {
			return f(b)
		}
		logError("func operator without a function operand", nil)
		return dropValue
	},
}

// numericOp builds a value operation that merges control records field-wise,
// stays integral when both sides are, and falls back to floats otherwise.
func numericOp(ff func(a, b float64) any, fi func(a, b int64) any) opFunc {
	var op opFunc
	op = func(a, b any) any {
		if am, ok := asRecord(a); ok {
			if bm, ok := asRecord(b); ok {
				return unionWith(op, am, bm)
			}
			return mapRecord(am, func(v any) any { return op(v, b) })
		}
		if bm, ok := asRecord(b); ok {
			return mapRecord(bm, func(v any) any { return op(a, v) })
		}
		if as, ok := a.(string); ok {
			if bs, ok := b.(string); ok {
				return as + bs
			}
		}
		if fi != nil && isIntish(a) && isIntish(b) {
			ai, _ := toInt(a)
			bi, _ := toInt(b)
			return fi(ai, bi)
		}
		af, ok1 := toFloat(a)
		bf, ok2 := toFloat(b)
		if !ok1 || !ok2 {
			logError(fmt.Sprintf("cannot combine %T and %T numerically", a, b), nil)
			return dropValue
		}
		return ff(af, bf)
	}
	return op
}

func intOp(fi func(a, b int64) any) opFunc {
	var op opFunc
	op = func(a, b any) any {
		if am, ok := asRecord(a); ok {
			if bm, ok := asRecord(b); ok {
				return unionWith(op, am, bm)
			}
			return mapRecord(am, func(v any) any { return op(v, b) })
		}
		ai, ok1 := toInt(a)
		bi, ok2 := toInt(b)
		if !ok1 || !ok2 {
			logError(fmt.Sprintf("cannot combine %T and %T bitwise", a, b), nil)
			return dropValue
		}
		return fi(ai, bi)
	}
	return op
}

func cmpOp(f func(c int) bool) opFunc {
	return func(a, b any) any {
		if as, ok := a.(string); ok {
			if bs, ok := b.(string); ok {
				switch {
				case as < bs:
					return f(-1)
				case as > bs:
					return f(1)
				default:
					return f(0)
				}
			}
		}
		af, ok1 := toFloat(a)
		bf, ok2 := toFloat(b)
		if !ok1 || !ok2 {
			return dropValue
		}
		switch {
		case af < bf:
			return f(-1)
		case af > bf:
			return f(1)
		default:
			return f(0)
		}
	}
}

func mapRecord(m map[string]any, f func(any) any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = f(v)
	}
	return out
}

// Op combines the pattern with a value or pattern through a named operation
// and a structure discipline. Unknown operations log and yield Silence.
func (p Pattern) Op(name string, how How, other any) Pattern {
	f, ok := opTable[name]
	if !ok {
		logError(fmt.Sprintf("unknown operator %q", name), nil)
		return Silence
	}
	o := Reify(other)
	out := applyOp(f, how, p, o)
	return out.FilterValues(func(v any) bool {
		_, drop := v.(dropSentinel)
		return !drop
	})
}

func applyOp(f opFunc, how How, left, right Pattern) Pattern {
	curried := func(a any) any {
		return func(b any) any { return f(a, b) }
	}
	switch how {
	case HowOut:
		return left.FMap(curried).AppRight(right)
	case HowMix:
		return left.FMap(curried).AppBoth(right)
	case HowSqueeze:
		return left.FMap(func(a any) any {
			return right.FMap(func(b any) any { return f(a, b) })
		}).SqueezeJoin()
	case HowSqueezeOut:
		return right.FMap(func(b any) any {
			return left.FMap(func(a any) any { return f(a, b) })
		}).SqueezeJoin()
	case HowReset:
		// The right operand drives: the left pattern re-aligns inside it.
		return right.FMap(func(b any) any {
			return left.FMap(func(a any) any { return f(a, b) })
		}).ResetJoin()
	case HowRestart:
		return right.FMap(func(b any) any {
			return left.FMap(func(a any) any { return f(a, b) })
		}).RestartJoin()
	case HowPoly:
		return left.FMap(func(a any) any {
			return right.FMap(func(b any) any { return f(a, b) })
		}).PolyJoin()
	default:
		return left.FMap(curried).AppLeft(right)
	}
}

// The everyday combinations, structure from the left.

func (p Pattern) Add(other any) Pattern   { return p.Op("add", HowIn, other) }
func (p Pattern) Sub(other any) Pattern   { return p.Op("sub", HowIn, other) }
func (p Pattern) Mul(other any) Pattern   { return p.Op("mul", HowIn, other) }
func (p Pattern) DivBy(other any) Pattern { return p.Op("div", HowIn, other) }
func (p Pattern) ModBy(other any) Pattern { return p.Op("mod", HowIn, other) }
func (p Pattern) Set(other any) Pattern   { return p.Op("set", HowIn, other) }
func (p Pattern) Keep(other any) Pattern  { return p.Op("keep", HowIn, other) }

// The keep-if family under its traditional names: struct takes structure
// from the bool pattern, mask from the events, reset and restart re-align.

func (p Pattern) Struct(boolPat any) Pattern { return p.Op("keepif", HowOut, boolPat) }
func (p Pattern) Mask(boolPat any) Pattern   { return p.Op("keepif", HowIn, boolPat) }
func (p Pattern) Reset(onsets any) Pattern   { return p.Op("keepif", HowReset, onsets) }
func (p Pattern) Restart(onsets any) Pattern { return p.Op("keepif", HowRestart, onsets) }

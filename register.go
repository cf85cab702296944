package strudel

import "fmt"

// Registration wraps the engine's operators so that every non-final argument
// is itself a pattern. A constant argument short-circuits: the underlying
// function is called directly and the constant's source location is
// preserved. A patterned argument re-evaluates the operator per argument
// event and collapses through the operator's join discipline.

// patternifyRat lifts a time-like argument. f receives the resolved Rational
// and the subject pattern.
func patternifyRat(arg any, pat Pattern, f func(Rational, Pattern) Pattern) Pattern {
	return patternifyRatJoin(arg, pat, JoinInner, f)
}

func patternifyRatJoin(arg any, pat Pattern, join JoinKind, f func(Rational, Pattern) Pattern) Pattern {
	argPat := Reify(arg)
	if v, ok := argPat.PureValue(); ok {
		r, err := toRational(v)
		if err != nil {
			logError("invalid numeric argument", err)
			return Silence
		}
		out := f(r, pat)
		if argPat.pureLoc != nil {
			out = out.WithLocation(*argPat.pureLoc)
		}
		return out
	}
	out := argPat.FMap(func(v any) any {
		r, err := toRational(v)
		if err != nil {
			logError("invalid numeric argument", err)
			return Silence
		}
		return f(r, pat)
	}).JoinWith(join)
	return out.withStepsPtr(pat.steps)
}

// patternifyInt lifts an integer argument the same way.
func patternifyInt(arg any, pat Pattern, f func(int64, Pattern) Pattern) Pattern {
	argPat := Reify(arg)
	if v, ok := argPat.PureValue(); ok {
		n, ok := toInt(v)
		if !ok {
			logError(fmt.Sprintf("invalid integer argument %v", v), nil)
			return Silence
		}
		out := f(n, pat)
		if argPat.pureLoc != nil {
			out = out.WithLocation(*argPat.pureLoc)
		}
		return out
	}
	out := argPat.FMap(func(v any) any {
		n, ok := toInt(v)
		if !ok {
			logError(fmt.Sprintf("invalid integer argument %v", v), nil)
			return Silence
		}
		return f(n, pat)
	}).InnerJoin()
	return out.withStepsPtr(pat.steps)
}

// patternifyFloat lifts a float argument.
func patternifyFloat(arg any, pat Pattern, f func(float64, Pattern) Pattern) Pattern {
	argPat := Reify(arg)
	if v, ok := argPat.PureValue(); ok {
		x, ok := toFloat(v)
		if !ok {
			logError(fmt.Sprintf("invalid number argument %v", v), nil)
			return Silence
		}
		out := f(x, pat)
		if argPat.pureLoc != nil {
			out = out.WithLocation(*argPat.pureLoc)
		}
		return out
	}
	out := argPat.FMap(func(v any) any {
		x, ok := toFloat(v)
		if !ok {
			logError(fmt.Sprintf("invalid number argument %v", v), nil)
			return Silence
		}
		return f(x, pat)
	}).InnerJoin()
	return out.withStepsPtr(pat.steps)
}

// Registered is one engine operator exposed by name, for hosts and the
// mini-notation layer. Apply takes the operator's arguments with the subject
// pattern last.
type Registered struct {
	Name  string
	Arity int
	Apply func(args ...any) (Pattern, error)
}

var registry = map[string]Registered{}

// RegisterOp publishes an operator under a name. Re-registering a name
// replaces it.
func RegisterOp(name string, arity int, apply func(args ...any) (Pattern, error)) {
	registry[name] = Registered{Name: name, Arity: arity, Apply: apply}
}

// LookupOp finds a registered operator.
func LookupOp(name string) (Registered, bool) {
	r, ok := registry[name]
	return r, ok
}

func checkArity(name string, want int, args []any) error {
	if len(args) != want {
		return fmt.Errorf("%s wants %d arguments, got %d", name, want, len(args))
	}
	return nil
}

func regPat(name string, f func(pat Pattern) Pattern) {
	RegisterOp(name, 1, func(args ...any) (Pattern, error) {
		if err := checkArity(name, 1, args); err != nil {
			return Pattern{}, err
		}
		return f(Reify(args[0])), nil
	})
}

func regArgPat(name string, f func(arg any, pat Pattern) Pattern) {
	RegisterOp(name, 2, func(args ...any) (Pattern, error) {
		if err := checkArity(name, 2, args); err != nil {
			return Pattern{}, err
		}
		return f(args[0], Reify(args[1])), nil
	})
}

func reg2ArgPat(name string, f func(a, b any, pat Pattern) Pattern) {
	RegisterOp(name, 3, func(args ...any) (Pattern, error) {
		if err := checkArity(name, 3, args); err != nil {
			return Pattern{}, err
		}
		return f(args[0], args[1], Reify(args[2])), nil
	})
}

func init() {
	regArgPat("fast", func(a any, p Pattern) Pattern { return p.Fast(a) })
	regArgPat("slow", func(a any, p Pattern) Pattern { return p.Slow(a) })
	regArgPat("early", func(a any, p Pattern) Pattern { return p.Early(a) })
	regArgPat("late", func(a any, p Pattern) Pattern { return p.Late(a) })
	regPat("rev", Pattern.Rev)
	regPat("palindrome", Pattern.Palindrome)
	regArgPat("ply", func(a any, p Pattern) Pattern { return p.Ply(a) })
	regArgPat("linger", func(a any, p Pattern) Pattern { return p.Linger(a) })
	regArgPat("iter", func(a any, p Pattern) Pattern { return p.Iter(a) })
	regArgPat("iterBack", func(a any, p Pattern) Pattern { return p.IterBack(a) })
	regArgPat("repeatCycles", func(a any, p Pattern) Pattern { return p.RepeatCycles(a) })
	regArgPat("segment", func(a any, p Pattern) Pattern { return p.Segment(a) })
	regArgPat("struct", func(a any, p Pattern) Pattern { return p.Struct(a) })
	regArgPat("mask", func(a any, p Pattern) Pattern { return p.Mask(a) })
	regArgPat("reset", func(a any, p Pattern) Pattern { return p.Reset(a) })
	regArgPat("restart", func(a any, p Pattern) Pattern { return p.Restart(a) })
	reg2ArgPat("compress", func(a, b any, p Pattern) Pattern { return p.Compress(a, b) })
	reg2ArgPat("zoom", func(a, b any, p Pattern) Pattern { return p.Zoom(a, b) })
	reg2ArgPat("focus", func(a, b any, p Pattern) Pattern { return p.Focus(a, b) })
	reg2ArgPat("ribbon", func(a, b any, p Pattern) Pattern { return p.Ribbon(a, b) })
	regArgPat("fastGap", func(a any, p Pattern) Pattern { return p.FastGap(a) })
	regArgPat("chop", func(a any, p Pattern) Pattern { return p.Chop(a) })
	regArgPat("striate", func(a any, p Pattern) Pattern { return p.Striate(a) })
	regArgPat("take", func(a any, p Pattern) Pattern { return p.Take(a) })
	regArgPat("drop", func(a any, p Pattern) Pattern { return p.Drop(a) })
	regArgPat("pace", func(a any, p Pattern) Pattern { return p.Pace(a) })
	regArgPat("expand", func(a any, p Pattern) Pattern { return p.Expand(a) })
	regArgPat("contract", func(a any, p Pattern) Pattern { return p.Contract(a) })
	regArgPat("extend", func(a any, p Pattern) Pattern { return p.Extend(a) })
	regArgPat("replicate", func(a any, p Pattern) Pattern { return p.Replicate(a) })
	regArgPat("shrink", func(a any, p Pattern) Pattern { return p.Shrink(a) })
	regArgPat("grow", func(a any, p Pattern) Pattern { return p.Grow(a) })
	regArgPat("degradeBy", func(a any, p Pattern) Pattern { return p.DegradeBy(a) })
	regArgPat("undegradeBy", func(a any, p Pattern) Pattern { return p.UndegradeBy(a) })
	regPat("degrade", Pattern.Degrade)
	regPat("undegrade", Pattern.Undegrade)
	regArgPat("hurry", func(a any, p Pattern) Pattern { return p.Hurry(a) })
	regArgPat("loopAt", func(a any, p Pattern) Pattern { return p.LoopAt(a) })
	reg2ArgPat("slice", func(a, b any, p Pattern) Pattern { return p.Slice(a, b) })
	reg2ArgPat("splice", func(a, b any, p Pattern) Pattern { return p.Splice(a, b) })
	reg2ArgPat("bite", func(a, b any, p Pattern) Pattern { return p.Bite(a, b) })
	regPat("fit", Pattern.Fit)
	regArgPat("arp", func(a any, p Pattern) Pattern { return p.Arp(a) })
}

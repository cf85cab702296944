package strudel

import "fmt"

// Sample chopping and slicing. These operate on control records carrying
// begin/end sample positions in [0, 1]; chopping a chopped pattern composes,
// each cut scaling into the window left by the previous one.

// mergeSlice scales a sub-window into the record's existing begin/end range.
func mergeSlice(rec map[string]any, begin, end float64) map[string]any {
	b0 := recordFloat(rec, "begin", 0)
	e0 := recordFloat(rec, "end", 1)
	out := copyRecord(rec)
	out["begin"] = b0 + begin*(e0-b0)
	out["end"] = b0 + end*(e0-b0)
	return out
}

func asSliceRecord(v any) map[string]any {
	if rec, ok := asRecord(v); ok {
		return rec
	}
	// A bare value chops too; it becomes the record's sound.
	return map[string]any{"s": v}
}

// Chop cuts every event into n consecutive sub-events, each playing the next
// 1/n of the sample window.
func (p Pattern) Chop(args ...any) Pattern {
	return patternifyInt(sequenceArgs(args), p, func(n int64, p Pattern) Pattern {
		if n <= 0 {
			return Silence
		}
		return p.SqueezeBind(func(v any) Pattern {
			rec := asSliceRecord(v)
			parts := make([]any, n)
			for i := int64(0); i < n; i++ {
				parts[i] = mergeSlice(rec, float64(i)/float64(n), float64(i+1)/float64(n))
			}
			return Sequence(parts...)
		})
	})
}

// Striate interleaves across repeats instead: on pass i every event plays
// the i-th 1/n of its sample, so the sample creeps forward cycle by cycle.
func (p Pattern) Striate(args ...any) Pattern {
	return patternifyInt(sequenceArgs(args), p, func(n int64, p Pattern) Pattern {
		if n <= 0 {
			return Silence
		}
		wins := make([]Pattern, n)
		for i := int64(0); i < n; i++ {
			lo, hi := float64(i)/float64(n), float64(i+1)/float64(n)
			wins[i] = Pure([2]float64{lo, hi})
		}
		return p.FMap(func(v any) any {
			return func(w any) any {
				win := w.([2]float64)
				return mergeSlice(asSliceRecord(v), win[0], win[1])
			}
		}).AppLeft(SlowCat(wins...))
	})
}

// sliceBounds resolves the n argument of slice: a count gives equal cuts, a
// list gives explicit boundaries in [0, 1].
func sliceBounds(n any) ([][2]float64, error) {
	switch v := n.(type) {
	case []float64:
		if len(v) < 2 {
			return nil, fmt.Errorf("slice wants at least two boundaries")
		}
		out := make([][2]float64, len(v)-1)
		for i := 0; i+1 < len(v); i++ {
			out[i] = [2]float64{v[i], v[i+1]}
		}
		return out, nil
	default:
		count, ok := toInt(n)
		if !ok || count <= 0 {
			return nil, fmt.Errorf("bad slice count %v", n)
		}
		out := make([][2]float64, count)
		for i := int64(0); i < count; i++ {
			out[i] = [2]float64{float64(i) / float64(count), float64(i+1) / float64(count)}
		}
		return out, nil
	}
}

// Slice plays the numbered slice of each event's sample; the index pattern
// provides the structure. The slice count rides along as _slices for splice.
func (p Pattern) Slice(n, indexPat any) Pattern {
	bounds, err := sliceBounds(n)
	if err != nil {
		logError("slice", err)
		return Silence
	}
	idx := Reify(indexPat)
	return idx.FMap(func(iv any) any {
		return func(v any) any {
			i, ok := toInt(iv)
			if !ok {
				return dropValue
			}
			i = ((i % int64(len(bounds))) + int64(len(bounds))) % int64(len(bounds))
			out := mergeSlice(asSliceRecord(v), bounds[i][0], bounds[i][1])
			out["_slices"] = int64(len(bounds))
			return out
		}
	}).AppLeft(p).FilterValues(func(v any) bool {
		_, drop := v.(dropSentinel)
		return !drop
	})
}

// Splice is slice with the playback rate rewritten so the slice lasts
// exactly as long as its event, reading the host tempo from the controls.
func (p Pattern) Splice(n, indexPat any) Pattern {
	sliced := p.Slice(n, indexPat)
	return sliced.withHapsState(func(haps []Hap, st State) []Hap {
		out := make([]Hap, 0, len(haps))
		for _, h := range haps {
			rec, ok := asRecord(h.Value)
			if !ok || h.Whole == nil {
				out = append(out, h)
				continue
			}
			d := h.Whole.Duration().Float()
			slices := recordFloat(rec, "_slices", 1)
			if d <= 0 || slices <= 0 {
				out = append(out, h)
				continue
			}
			v := copyRecord(rec)
			v["speed"] = st.CPS() / slices / d * recordFloat(rec, "speed", 1)
			v["unit"] = "c"
			h.Value = v
			out = append(out, h)
		}
		return out
	})
}

// Fit stretches each event's sample window to the event's duration.
func (p Pattern) Fit() Pattern {
	return p.withHapsState(func(haps []Hap, st State) []Hap {
		out := make([]Hap, 0, len(haps))
		for _, h := range haps {
			rec, ok := asRecord(h.Value)
			if !ok || h.Whole == nil {
				out = append(out, h)
				continue
			}
			d := h.Whole.Duration().Float()
			if d <= 0 {
				out = append(out, h)
				continue
			}
			v := copyRecord(rec)
			v["speed"] = st.CPS() * (recordFloat(rec, "end", 1) - recordFloat(rec, "begin", 0)) / d
			v["unit"] = "c"
			h.Value = v
			out = append(out, h)
		}
		return out
	})
}

// LoopAt slows the pattern over k cycles and pins the sample rate so one
// sample loop spans them.
func (p Pattern) LoopAt(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(k Rational, p Pattern) Pattern {
		if k.Sign() <= 0 {
			return Silence
		}
		return p.Slow(k).withHapsState(func(haps []Hap, st State) []Hap {
			out := make([]Hap, 0, len(haps))
			for _, h := range haps {
				rec, ok := asRecord(h.Value)
				if !ok {
					out = append(out, h)
					continue
				}
				v := copyRecord(rec)
				v["speed"] = st.CPS() / k.Float() * recordFloat(rec, "speed", 1)
				v["unit"] = "c"
				h.Value = v
				out = append(out, h)
			}
			return out
		})
	})
}

// Bite plays the numbered 1/n slice of the pattern itself, squeezed into
// each index event.
func (p Pattern) Bite(n, indexPat any) Pattern {
	return patternifyInt(n, p, func(n int64, p Pattern) Pattern {
		if n <= 0 {
			return Silence
		}
		return Reify(indexPat).FMap(func(iv any) any {
			i, ok := toInt(iv)
			if !ok {
				return Silence
			}
			i = ((i % n) + n) % n
			return p.Zoom(Rat(i, n), Rat(i+1, n))
		}).SqueezeJoin()
	})
}

// Hurry speeds the pattern up and raises the sample rate with it.
func (p Pattern) Hurry(args ...any) Pattern {
	return patternifyRat(sequenceArgs(args), p, func(k Rational, p Pattern) Pattern {
		return _fast(k, p).Mul(map[string]any{"speed": k.Float()})
	})
}

// arpModes orders a chord's notes; each mode maps a chord of length n to an
// index walk.
var arpModes = map[string]func(n int) []int{
	"up": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	},
	"down": func(n int) []int {
		out := make([]int, n)
		for i := range out {
			out[i] = n - 1 - i
		}
		return out
	},
	"updown": func(n int) []int {
		var out []int
		for i := 0; i < n; i++ {
			out = append(out, i)
		}
		for i := n - 2; i > 0; i-- {
			out = append(out, i)
		}
		return out
	},
	"downup": func(n int) []int {
		var out []int
		for i := n - 1; i >= 0; i-- {
			out = append(out, i)
		}
		for i := 1; i < n-1; i++ {
			out = append(out, i)
		}
		return out
	},
	"converge": func(n int) []int {
		var out []int
		lo, hi := 0, n-1
		for lo <= hi {
			out = append(out, lo)
			if lo != hi {
				out = append(out, hi)
			}
			lo++
			hi--
		}
		return out
	},
}

// Arp arpeggiates chord values (slices of values) one note per step within
// each event. Unknown modes log and yield Silence.
func (p Pattern) Arp(mode any) Pattern {
	return Reify(mode).FMap(func(mv any) any {
		name, _ := mv.(string)
		walk, ok := arpModes[name]
		if !ok {
			logError(fmt.Sprintf("unknown arp mode %q", name), nil)
			return Silence
		}
		return p.SqueezeBind(func(v any) Pattern {
			chord, ok := v.([]any)
			if !ok || len(chord) == 0 {
				return Pure(v)
			}
			idx := walk(len(chord))
			notes := make([]any, len(idx))
			for i, j := range idx {
				notes[i] = chord[j]
			}
			return Sequence(notes...)
		})
	}).InnerJoin()
}

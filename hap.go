package strudel

import (
	"fmt"
	"reflect"
	"sort"
)

// Location is a source span in whatever text the mini-notation hook parsed;
// editors use it to highlight the fragment an event came from.
type Location struct {
	Start int
	End   int
}

// TriggerClock is the host's view of time when it fires an event: the audio
// context time now, the scheduled time of the event, and the tempo in cycles
// per second. The engine never reads a system clock.
type TriggerClock struct {
	CurrentTime float64
	TargetTime  float64
	CPS         float64
}

// Trigger is a host-invoked callback attached to an event through its
// context. Triggers chain; earlier ones fire first.
type Trigger func(clock TriggerClock, hap Hap) error

// Context is the free-form bag every event carries: source locations, user
// tags, a display color, chained triggers, and an extension map. It is
// accumulated immutably; combining never mutates either side.
type Context struct {
	Locations []Location
	Tags      []string
	Color     string
	OnTrigger []Trigger
	Extra     map[string]any
}

// Combine merges two contexts. Slices concatenate left-then-right, the right
// color wins when set, and the extension maps union right-biased.
func (c Context) Combine(o Context) Context {
	out := Context{
		Locations: concatSlices(c.Locations, o.Locations),
		Tags:      concatSlices(c.Tags, o.Tags),
		OnTrigger: concatSlices(c.OnTrigger, o.OnTrigger),
		Color:     c.Color,
	}
	if o.Color != "" {
		out.Color = o.Color
	}
	if len(c.Extra) > 0 || len(o.Extra) > 0 {
		out.Extra = make(map[string]any, len(c.Extra)+len(o.Extra))
		for k, v := range c.Extra {
			out.Extra[k] = v
		}
		for k, v := range o.Extra {
			out.Extra[k] = v
		}
	}
	return out
}

func concatSlices[T any](a, b []T) []T {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// Hap is one timed event: Part is the slice the query is reporting, Whole the
// event's full lifetime (possibly extending past the query). A nil Whole
// marks a continuous event, i.e. a sampled signal value.
type Hap struct {
	Whole   *Span
	Part    Span
	Value   any
	Context Context
}

// WholeOrPart returns the whole when present, else the part.
func (h Hap) WholeOrPart() Span {
	if h.Whole != nil {
		return *h.Whole
	}
	return h.Part
}

// HasOnset reports whether the part contains the event's beginning.
func (h Hap) HasOnset() bool {
	return h.Whole != nil && h.Whole.Begin.Equal(h.Part.Begin)
}

// Continuous reports whether the event is a sampled signal value.
func (h Hap) Continuous() bool { return h.Whole == nil }

// Duration is the length of the whole; zero for continuous events.
func (h Hap) Duration() Rational {
	if h.Whole == nil {
		return R(0)
	}
	return h.Whole.Duration()
}

// WithSpan maps both part and whole through f.
func (h Hap) WithSpan(f func(Span) Span) Hap {
	out := h
	out.Part = f(h.Part)
	if h.Whole != nil {
		w := f(*h.Whole)
		out.Whole = &w
	}
	return out
}

// WithValue maps the value only.
func (h Hap) WithValue(f func(any) any) Hap {
	out := h
	out.Value = f(h.Value)
	return out
}

// WithContext maps the context only.
func (h Hap) WithContext(f func(Context) Context) Hap {
	out := h
	out.Context = f(h.Context)
	return out
}

// CombineContext merges this hap's context with another's.
func (h Hap) CombineContext(o Hap) Context {
	return h.Context.Combine(o.Context)
}

// Fire invokes the chained triggers in order, stopping at the first error.
func (h Hap) Fire(clock TriggerClock) error {
	for _, f := range h.Context.OnTrigger {
		if err := f(clock, h); err != nil {
			return err
		}
	}
	return nil
}

func (h Hap) String() string {
	whole := "~"
	if h.Whole != nil {
		whole = h.Whole.String()
	}
	return fmt.Sprintf("%s %s %v", whole, h.Part, h.Value)
}

// SortHapsByPart orders events by (part begin, part end, whole begin, whole
// end) in place and returns the slice. Queries are free to return events
// unsorted; tests pin the order with this.
func SortHapsByPart(haps []Hap) []Hap {
	sort.SliceStable(haps, func(i, j int) bool {
		a, b := haps[i], haps[j]
		if c := a.Part.Begin.Cmp(b.Part.Begin); c != 0 {
			return c < 0
		}
		if c := a.Part.End.Cmp(b.Part.End); c != 0 {
			return c < 0
		}
		aw, bw := a.WholeOrPart(), b.WholeOrPart()
		if c := aw.Begin.Cmp(bw.Begin); c != 0 {
			return c < 0
		}
		return aw.End.Cmp(bw.End) < 0
	})
	return haps
}

// DefragmentHaps merges adjacent fragments of the same whole back into one
// hap. Only tests need this; querying cycle-by-cycle naturally fragments
// events and the fragments are semantically equivalent.
func DefragmentHaps(haps []Hap) []Hap {
	var out []Hap
	for _, h := range haps {
		merged := false
		for i, o := range out {
			if o.Whole == nil || h.Whole == nil {
				continue
			}
			if !o.Whole.Equal(*h.Whole) || !sameValue(o.Value, h.Value) {
				continue
			}
			if o.Part.End.Equal(h.Part.Begin) {
				out[i].Part = Span{o.Part.Begin, h.Part.End}
				merged = true
				break
			}
			if h.Part.End.Equal(o.Part.Begin) {
				out[i].Part = Span{h.Part.Begin, o.Part.End}
				merged = true
				break
			}
		}
		if !merged {
			out = append(out, h)
		}
	}
	return out
}

func sameValue(a, b any) bool {
	ar, aok := a.(Rational)
	br, bok := b.(Rational)
	if aok && bok {
		return ar.Equal(br)
	}
	return reflect.DeepEqual(a, b)
}

package strudel

// State is the query context: the span being asked about plus the host's
// key/value controls. Patterns read controls, never write them.
type State struct {
	Span     Span
	Controls map[string]any
}

// NewState builds a state for a span with no controls.
func NewState(span Span) State {
	return State{Span: span}
}

// SetSpan returns a copy of the state querying a different span. The
// controls map is shared; it is read-only by contract.
func (s State) SetSpan(span Span) State {
	s.Span = span
	return s
}

// WithSpan maps the query span through f.
func (s State) WithSpan(f func(Span) Span) State {
	s.Span = f(s.Span)
	return s
}

// CPS reads the host-supplied cycles-per-second control, defaulting to 1.
// Only splice, fit and loopAt look at it.
func (s State) CPS() float64 {
	if v, ok := s.Controls["_cps"]; ok {
		if f, ok := toFloat(v); ok && f > 0 {
			return f
		}
	}
	return 1
}

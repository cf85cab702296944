package strudel

import "fmt"

// The control registry: a process-wide table mapping control aliases to
// their canonical field name. A control constructor lifts a value (or
// pattern of values) into a pattern of one-field records; records compose
// field-wise through the operator matrix. The table is populated at startup;
// registering mid-run is undefined behaviour, like the other hooks.

var controlAliases = map[string]string{}

// RegisterControl adds a canonical control name and any aliases for it.
func RegisterControl(canonical string, aliases ...string) {
	controlAliases[canonical] = canonical
	for _, a := range aliases {
		controlAliases[a] = canonical
	}
}

// ControlName resolves an alias to its canonical name.
func ControlName(name string) (string, bool) {
	canon, ok := controlAliases[name]
	return canon, ok
}

// Control lifts a value into a pattern of single-field records under the
// named control. A record argument keeps its extra fields, with the control
// taking the record's "value" entry. Unknown names log and yield Silence.
func Control(name string, value any) Pattern {
	canon, ok := controlAliases[name]
	if !ok {
		logError(fmt.Sprintf("unknown control %q", name), nil)
		return Silence
	}
	return Reify(value).FMap(func(v any) any {
		if rec, ok := asRecord(v); ok {
			if inner, ok := rec["value"]; ok {
				out := copyRecord(rec)
				delete(out, "value")
				out[canon] = inner
				return out
			}
			return rec
		}
		return map[string]any{canon: v}
	})
}

// WithControl overlays the named control onto every event's record,
// structure from the pattern.
func (p Pattern) WithControl(name string, value any) Pattern {
	return p.Op("set", HowIn, Control(name, value))
}

func init() {
	RegisterControl("s", "sound")
	RegisterControl("n")
	RegisterControl("note")
	RegisterControl("gain")
	RegisterControl("speed")
	RegisterControl("begin")
	RegisterControl("end")
	RegisterControl("pan")
	RegisterControl("channel", "chan")
	RegisterControl("cut")
	RegisterControl("shape")
	RegisterControl("room")
	RegisterControl("size", "sz")
	RegisterControl("unit")
}

// Sound, Note and the other everyday constructors.

func Sound(v any) Pattern { return Control("s", v) }
func Note(v any) Pattern  { return Control("note", v) }
func N(v any) Pattern     { return Control("n", v) }
func Gain(v any) Pattern  { return Control("gain", v) }
func Speed(v any) Pattern { return Control("speed", v) }
func Pan(v any) Pattern   { return Control("pan", v) }

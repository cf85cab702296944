// Package midi renders pattern queries to standard MIDI: a one-track SMF
// for files, or a timestamped message list for live senders. Timing maps one
// cycle to one quarter note; the host tempo comes in as cycles per second and
// goes out as the file's tempo meta event.
package midi

import (
	"fmt"
	"io"
	"sort"

	strudel "github.com/gemini-it/strudel"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Options configure a render.
type Options struct {
	// CPS is the tempo in cycles per second; 0 means 1.
	CPS float64
	// Channel is the default MIDI channel when an event has none.
	Channel uint8
	// Velocity is the default velocity when an event has no gain.
	Velocity uint8
	// TicksPerCycle is the SMF resolution; 0 means 960.
	TicksPerCycle uint32
}

func (o Options) withDefaults() Options {
	if o.CPS <= 0 {
		o.CPS = 1
	}
	if o.Velocity == 0 {
		o.Velocity = 100
	}
	if o.TicksPerCycle == 0 {
		o.TicksPerCycle = 960
	}
	return o
}

// Message is one MIDI message with its position in cycles from the start of
// the render.
type Message struct {
	At  strudel.Rational
	Msg midi.Message
}

// Messages maps the onsets among the events to NoteOn/NoteOff pairs, sorted
// by time. Events without a usable note are skipped.
func Messages(haps []strudel.Hap, opts Options) []Message {
	opts = opts.withDefaults()
	var out []Message
	for _, h := range haps {
		if !h.HasOnset() {
			continue
		}
		key, ch, vel, ok := noteOf(h, opts)
		if !ok {
			continue
		}
		out = append(out, Message{At: h.Whole.Begin, Msg: midi.NoteOn(ch, key, vel)})
		out = append(out, Message{At: h.Whole.End, Msg: midi.NoteOff(ch, key)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Lt(out[j].At) })
	return out
}

// noteOf resolves an event value into a key, channel and velocity. Records
// read note/n, channel and gain; bare numbers are keys; bare strings play
// the default note.
func noteOf(h strudel.Hap, opts Options) (key, ch, vel uint8, ok bool) {
	ch = opts.Channel
	vel = opts.Velocity
	note := 60
	switch v := h.Value.(type) {
	case map[string]any:
		found := false
		if nv, has := v["note"]; has {
			if i, isNum := intOf(nv); isNum {
				note, found = i, true
			}
		}
		if nv, has := v["n"]; has && !found {
			if i, isNum := intOf(nv); isNum {
				note, found = 60+i, true
			}
		}
		if cv, has := v["channel"]; has {
			if i, isNum := intOf(cv); isNum && i >= 0 && i < 16 {
				ch = uint8(i)
			}
		}
		if gv, has := v["gain"]; has {
			if f, isFloat := gv.(float64); isFloat && f >= 0 && f <= 1 {
				vel = uint8(f * 127)
			}
		}
	case string:
		// A bare sound name still triggers.
	default:
		i, isNum := intOf(v)
		if !isNum {
			return 0, 0, 0, false
		}
		note = i
	}
	if note < 0 || note > 127 {
		return 0, 0, 0, false
	}
	return uint8(note), ch, vel, true
}

func intOf(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// WriteSMF queries the pattern over [0, cycles) and writes a format 0 file.
func WriteSMF(w io.Writer, pat strudel.Pattern, cycles int, opts Options) error {
	if cycles <= 0 {
		return fmt.Errorf("midi render needs a positive cycle count, got %d", cycles)
	}
	opts = opts.withDefaults()
	haps := pat.QueryArcControls(strudel.R(0), strudel.R(int64(cycles)), map[string]any{"_cps": opts.CPS})
	strudel.SortHapsByPart(haps)
	msgs := Messages(haps, opts)

	file := smf.New()
	file.TimeFormat = smf.MetricTicks(uint16(opts.TicksPerCycle))

	var track smf.Track
	// One cycle per quarter note: tempo in bpm is cycles per minute.
	track.Add(0, smf.MetaTempo(opts.CPS*60))
	last := strudel.R(0)
	for _, m := range msgs {
		delta := m.At.Sub(last).Mul(strudel.R(int64(opts.TicksPerCycle))).Float()
		if delta < 0 {
			delta = 0
		}
		track.Add(uint32(delta), m.Msg)
		last = m.At
	}
	track.Close(0)
	if err := file.Add(track); err != nil {
		return fmt.Errorf("adding track: %w", err)
	}
	if _, err := file.WriteTo(w); err != nil {
		return fmt.Errorf("writing smf: %w", err)
	}
	return nil
}

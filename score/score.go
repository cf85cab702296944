// Package score flattens pattern queries into a tracker-style score: a grid
// of rows per cycle, one track per sound, serializable as yaml. It is a host
// of the pattern engine, not part of it; quantizing to rows loses the exact
// rational timing, which is fine for display and export.
package score

import (
	"fmt"
	"io"
	"sort"

	strudel "github.com/gemini-it/strudel"
	"gopkg.in/yaml.v3"
)

// Row is one slot of a track. A nil Note marks an empty row; Hold marks the
// continuation of the previous note.
type Row struct {
	Note *int    `yaml:"note,omitempty"`
	Hold bool    `yaml:"hold,omitempty"`
	Gain float64 `yaml:"gain,omitempty"`
}

// Track is a named lane of rows covering the whole rendered window.
type Track struct {
	Name string `yaml:"name"`
	Rows []Row  `yaml:"rows"`
}

// Score is the rendered grid: Length cycles of RowsPerCycle rows each.
type Score struct {
	RowsPerCycle int     `yaml:"rowsPerCycle"`
	Length       int     `yaml:"length"`
	Tracks       []Track `yaml:"tracks"`
}

// Copy makes a deep copy of a Score.
func (s Score) Copy() Score {
	tracks := make([]Track, len(s.Tracks))
	for i, t := range s.Tracks {
		rows := make([]Row, len(t.Rows))
		copy(rows, t.Rows)
		tracks[i] = Track{Name: t.Name, Rows: rows}
	}
	return Score{RowsPerCycle: s.RowsPerCycle, Length: s.Length, Tracks: tracks}
}

// TotalRows is RowsPerCycle * Length.
func (s Score) TotalRows() int { return s.RowsPerCycle * s.Length }

// Track finds a track by name.
func (s Score) Track(name string) (Track, bool) {
	for _, t := range s.Tracks {
		if t.Name == name {
			return t, true
		}
	}
	return Track{}, false
}

const defaultNote = 60

// Render queries the pattern over [0, cycles) and quantizes the onsets into
// a score. Events land on the row containing their onset; their wholes mark
// the following rows as holds. The track is the event's "s" sound (one
// track, "", when none) and the note comes from "note" as an absolute key,
// or from "n" as an offset from middle C.
func Render(pat strudel.Pattern, cycles, rowsPerCycle int) (Score, error) {
	if cycles <= 0 || rowsPerCycle <= 0 {
		return Score{}, fmt.Errorf("score needs positive dimensions, got %d cycles of %d rows", cycles, rowsPerCycle)
	}
	total := cycles * rowsPerCycle
	rowDur := strudel.Rat(1, int64(rowsPerCycle))
	tracks := map[string][]Row{}
	haps := pat.QueryArc(strudel.R(0), strudel.R(int64(cycles)))
	strudel.SortHapsByPart(haps)
	for _, h := range haps {
		if !h.HasOnset() {
			continue
		}
		name, note, gain, ok := noteOf(h)
		if !ok {
			continue
		}
		rows, exists := tracks[name]
		if !exists {
			rows = make([]Row, total)
			tracks[name] = rows
		}
		start, _ := h.Whole.Begin.Div(rowDur).Int()
		end, _ := h.Whole.End.Div(rowDur).Ceil().Int()
		if start < 0 {
			start = 0
		}
		if end > int64(total) {
			end = int64(total)
		}
		if start >= int64(total) {
			continue
		}
		n := note
		rows[start] = Row{Note: &n, Gain: gain}
		for r := start + 1; r < end; r++ {
			if rows[r].Note == nil && !rows[r].Hold {
				rows[r] = Row{Hold: true}
			}
		}
	}
	names := make([]string, 0, len(tracks))
	for name := range tracks {
		names = append(names, name)
	}
	sort.Strings(names)
	out := Score{RowsPerCycle: rowsPerCycle, Length: cycles}
	for _, name := range names {
		out.Tracks = append(out.Tracks, Track{Name: name, Rows: tracks[name]})
	}
	return out, nil
}

// noteOf digs the track name, note number and gain out of an event value.
// Bare numbers are notes on the default track; bare strings are sounds at
// the default note.
func noteOf(h strudel.Hap) (name string, note int, gain float64, ok bool) {
	gain = 1
	note = defaultNote
	switch v := h.Value.(type) {
	case map[string]any:
		if s, found := v["s"]; found {
			name, _ = s.(string)
		}
		if g, found := v["gain"]; found {
			if f, isFloat := g.(float64); isFloat {
				gain = f
			}
		}
		if nv, found := v["note"]; found {
			if i, isInt := intOf(nv); isInt {
				return name, i, gain, true
			}
		}
		if nv, found := v["n"]; found {
			// n is an index, pitched relative to middle C.
			if i, isInt := intOf(nv); isInt {
				return name, defaultNote + i, gain, true
			}
		}
		return name, note, gain, true
	case string:
		return v, defaultNote, gain, true
	default:
		if i, isInt := intOf(v); isInt {
			return "", i, gain, true
		}
		return "", 0, 0, false
	}
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

// WriteYAML serializes the score.
func (s Score) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding score: %w", err)
	}
	return nil
}

// ReadYAML deserializes a score written by WriteYAML.
func ReadYAML(r io.Reader) (Score, error) {
	var s Score
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return Score{}, fmt.Errorf("decoding score: %w", err)
	}
	return s, nil
}

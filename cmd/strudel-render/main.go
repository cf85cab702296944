package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	strudel "github.com/gemini-it/strudel"
	"github.com/gemini-it/strudel/midi"
	"github.com/gemini-it/strudel/score"
	"github.com/gemini-it/strudel/version"
)

// demos are the built-in patterns; without a mini-notation parser wired in,
// the renderer needs something to chew on.
var demos = map[string]func() strudel.Pattern{
	"beat": func() strudel.Pattern {
		drums := strudel.Sequence(
			strudel.Sound("bd"),
			strudel.Sound("sn"),
			strudel.Sound("bd").Fast(2),
			strudel.Sound("sn"),
		)
		return drums.Every(4, strudel.Pattern.Rev)
	},
	"melody": func() strudel.Pattern {
		line := strudel.N(strudel.Sequence(0, 4, 7, 12)).WithControl("s", "piano")
		return strudel.Stack(
			line,
			line.Add(strudel.N(strudel.Pure(12))).Late(strudel.Rat(1, 8)).WithControl("gain", 0.6),
		)
	},
	"poly": func() strudel.Pattern {
		return strudel.Polymeter(
			strudel.N(strudel.Sequence(0, 3)).WithControl("s", "arp"),
			strudel.N(strudel.Sequence(7, 5, 2)).WithControl("s", "arp"),
		)
	},
}

// eventDump is the yaml shape of one queried event.
type eventDump struct {
	Whole string `yaml:"whole,omitempty"`
	Part  string `yaml:"part"`
	Onset bool   `yaml:"onset"`
	Value any    `yaml:"value"`
}

func main() {
	name := flag.String("p", "beat", "Name of the built-in pattern to render. One of: "+demoNames())
	cycles := flag.Int("c", 4, "How many cycles to query.")
	cps := flag.Float64("cps", 1, "Tempo in cycles per second.")
	midiOut := flag.String("o", "", "Write the render as a standard MIDI file to this path.")
	scoreOut := flag.String("score", "", "Write the render as a yaml score to this path.")
	rows := flag.Int("rows", 16, "Rows per cycle in the score output.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	build, ok := demos[*name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown pattern %q, have: %s\n", *name, demoNames())
		os.Exit(1)
	}
	pat := build()

	haps := pat.QueryArcControls(strudel.R(0), strudel.R(int64(*cycles)), map[string]any{"_cps": *cps})
	strudel.SortHapsByPart(haps)
	dump := make([]eventDump, len(haps))
	for i, h := range haps {
		d := eventDump{Part: h.Part.String(), Onset: h.HasOnset(), Value: h.Value}
		if h.Whole != nil {
			d.Whole = h.Whole.String()
		}
		dump[i] = d
	}
	enc := yaml.NewEncoder(os.Stdout)
	if err := enc.Encode(dump); err != nil {
		fmt.Fprintf(os.Stderr, "encoding events: %v\n", err)
		os.Exit(1)
	}
	enc.Close()

	if *midiOut != "" {
		f, err := os.Create(*midiOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating %s: %v\n", *midiOut, err)
			os.Exit(1)
		}
		err = midi.WriteSMF(f, pat, *cycles, midi.Options{CPS: *cps})
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", *midiOut, err)
			os.Exit(1)
		}
	}
	if *scoreOut != "" {
		s, err := score.Render(pat, *cycles, *rows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "rendering score: %v\n", err)
			os.Exit(1)
		}
		f, err := os.Create(*scoreOut)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating %s: %v\n", *scoreOut, err)
			os.Exit(1)
		}
		err = s.WriteYAML(f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "writing %s: %v\n", *scoreOut, err)
			os.Exit(1)
		}
	}
}

func demoNames() string {
	names := make([]string, 0, len(demos))
	for name := range demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

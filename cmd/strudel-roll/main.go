package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	strudel "github.com/gemini-it/strudel"
	"github.com/gemini-it/strudel/score"
)

// A terminal pianoroll: one line per track, one column per row of the
// rendered score, onsets bright and holds dim.

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Width(10)
	onsetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	holdStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func main() {
	cycles := flag.Int("c", 4, "How many cycles to show.")
	rows := flag.Int("rows", 16, "Columns per cycle.")
	flag.Parse()

	pat := strudel.Stack(
		strudel.Sound(strudel.Sequence("bd", "sn", "bd", "sn")),
		strudel.Sound("hh").Fast(8).DegradeBy(0.3),
	)
	s, err := score.Render(pat, *cycles, *rows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rendering: %v\n", err)
		os.Exit(1)
	}
	for _, track := range s.Tracks {
		var b strings.Builder
		b.WriteString(nameStyle.Render(track.Name))
		for i, row := range track.Rows {
			if i > 0 && i%s.RowsPerCycle == 0 {
				b.WriteString(barStyle.Render("|"))
			}
			switch {
			case row.Note != nil:
				b.WriteString(onsetStyle.Render("█"))
			case row.Hold:
				b.WriteString(holdStyle.Render("─"))
			default:
				b.WriteString(holdStyle.Render("·"))
			}
		}
		fmt.Println(b.String())
	}
}

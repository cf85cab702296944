package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"

	strudel "github.com/gemini-it/strudel"
	"github.com/gemini-it/strudel/midi"
)

// A minimal host: queries the pattern one cycle at a time and sends the
// events to a MIDI out port in real time. The scheduling loop lives here;
// the engine itself is only ever asked "what happens in this window".

func main() {
	cps := flag.Float64("cps", 0.5, "Tempo in cycles per second.")
	cycles := flag.Int("c", 8, "How many cycles to play; 0 plays forever.")
	port := flag.Int("port", 0, "Index of the MIDI out port to use.")
	list := flag.Bool("l", false, "List MIDI out ports and exit.")
	flag.Parse()

	drv, err := rtmididrv.New()
	if err != nil {
		log.Fatalf("opening MIDI driver: %v", err)
	}
	defer drv.Close()
	outs, err := drv.Outs()
	if err != nil {
		log.Fatalf("listing MIDI outs: %v", err)
	}
	if *list {
		for i, out := range outs {
			fmt.Printf("%d: %s\n", i, out.String())
		}
		return
	}
	if *port < 0 || *port >= len(outs) {
		fmt.Fprintf(os.Stderr, "no MIDI out port %d; run with -l to list\n", *port)
		os.Exit(1)
	}
	out := outs[*port]
	if err := out.Open(); err != nil {
		log.Fatalf("opening port: %v", err)
	}
	defer out.Close()
	send, err := gomidi.SendTo(out)
	if err != nil {
		log.Fatalf("preparing sender: %v", err)
	}

	pat := strudel.Stack(
		strudel.N(strudel.Sequence(0, 4, 7, 4)).WithControl("channel", 0),
		strudel.N(strudel.Sequence(-12, -5)).WithControl("channel", 1).WithControl("gain", 0.7),
	)

	cycleDur := time.Duration(float64(time.Second) / *cps)
	start := time.Now()
	controls := map[string]any{"_cps": *cps}
	for cycle := int64(0); *cycles == 0 || cycle < int64(*cycles); cycle++ {
		haps := pat.QueryArcControls(strudel.R(cycle), strudel.R(cycle+1), controls)
		msgs := midi.Messages(haps, midi.Options{CPS: *cps})
		for _, m := range msgs {
			at := start.Add(time.Duration(m.At.Float() * float64(cycleDur)))
			if d := time.Until(at); d > 0 {
				time.Sleep(d)
			}
			if err := send(m.Msg); err != nil {
				log.Printf("send: %v", err)
			}
		}
		// Sleep out the rest of the cycle so empty cycles keep time.
		cycleEnd := start.Add(time.Duration(float64(cycle+1) * float64(cycleDur)))
		if d := time.Until(cycleEnd); d > 0 {
			time.Sleep(d)
		}
	}
}

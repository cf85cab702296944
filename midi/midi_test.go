package midi_test

import (
	"bytes"
	"testing"

	strudel "github.com/gemini-it/strudel"
	"github.com/gemini-it/strudel/midi"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestMessagesPairNotes(t *testing.T) {
	pat := strudel.N(strudel.Sequence(0, 7))
	haps := pat.QueryArc(strudel.R(0), strudel.R(1))
	strudel.SortHapsByPart(haps)
	msgs := midi.Messages(haps, midi.Options{})
	if len(msgs) != 4 {
		t.Fatalf("two notes should give four messages, got %d", len(msgs))
	}
	var key, key2 uint8
	var ch uint8
	var vel uint8
	if !msgs[0].Msg.GetNoteOn(&ch, &key, &vel) {
		t.Fatalf("first message should be a note on: %v", msgs[0].Msg)
	}
	if key != 60 {
		t.Errorf("n 0 should be middle C, got %d", key)
	}
	if !msgs[1].Msg.GetNoteOff(&ch, &key, &vel) {
		t.Fatalf("second message should be a note off: %v", msgs[1].Msg)
	}
	if !msgs[2].Msg.GetNoteOn(&ch, &key2, &vel) || key2 != 67 {
		t.Errorf("n 7 should be 67, got %d", key2)
	}
	if !msgs[0].At.Equal(strudel.R(0)) || !msgs[1].At.Equal(strudel.Rat(1, 2)) {
		t.Errorf("timings wrong: %v, %v", msgs[0].At, msgs[1].At)
	}
}

func TestMessagesReadControls(t *testing.T) {
	pat := strudel.N(strudel.Pure(0)).
		WithControl("channel", 3).
		WithControl("gain", 0.5)
	haps := pat.QueryArc(strudel.R(0), strudel.R(1))
	msgs := midi.Messages(haps, midi.Options{})
	var ch, key, vel uint8
	if !msgs[0].Msg.GetNoteOn(&ch, &key, &vel) {
		t.Fatalf("expected note on")
	}
	if ch != 3 {
		t.Errorf("channel = %d, expected 3", ch)
	}
	if vel != 63 {
		t.Errorf("velocity = %d, expected 63", vel)
	}
}

func TestMessagesSkipFragments(t *testing.T) {
	// Querying mid-event must not retrigger: only onsets map to notes.
	pat := strudel.N(strudel.Pure(0))
	haps := pat.QueryArc(strudel.Rat(1, 2), strudel.Rat(3, 2))
	msgs := midi.Messages(haps, midi.Options{})
	if len(msgs) != 2 {
		t.Fatalf("only the onset at cycle 1 should trigger, got %d messages", len(msgs))
	}
	if !msgs[0].At.Equal(strudel.R(1)) {
		t.Errorf("note on at %v, expected 1", msgs[0].At)
	}
}

func TestWriteSMF(t *testing.T) {
	pat := strudel.Stack(
		strudel.N(strudel.Sequence(0, 4, 7)),
		strudel.Sound(strudel.Sequence("bd", "sn")),
	)
	var buf bytes.Buffer
	if err := midi.WriteSMF(&buf, pat, 2, midi.Options{CPS: 2}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	file, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("the file should read back: %v", err)
	}
	if len(file.Tracks) != 1 {
		t.Errorf("expected one track, got %d", len(file.Tracks))
	}
	events := 0
	for _, ev := range file.Tracks[0] {
		var ch, key, vel uint8
		if ev.Message.GetNoteOn(&ch, &key, &vel) {
			events++
		}
	}
	// Three melody notes and two drum hits per cycle, two cycles.
	if events != 10 {
		t.Errorf("expected 10 note ons, got %d", events)
	}
}

func TestWriteSMFRejectsBadCycles(t *testing.T) {
	var buf bytes.Buffer
	if err := midi.WriteSMF(&buf, strudel.Silence, 0, midi.Options{}); err == nil {
		t.Errorf("zero cycles should fail")
	}
}

package score_test

import (
	"bytes"
	"reflect"
	"testing"

	strudel "github.com/gemini-it/strudel"
	"github.com/gemini-it/strudel/score"
)

func TestRenderQuantizes(t *testing.T) {
	pat := strudel.Sound(strudel.Sequence("bd", "sn"))
	s, err := score.Render(pat, 2, 4)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if s.TotalRows() != 8 {
		t.Fatalf("expected 8 rows, got %d", s.TotalRows())
	}
	if len(s.Tracks) != 2 {
		t.Fatalf("expected two tracks, got %d", len(s.Tracks))
	}
	bd, ok := s.Track("bd")
	if !ok {
		t.Fatalf("no bd track")
	}
	// bd plays the first half of each cycle: onset at rows 0 and 4.
	for i, row := range bd.Rows {
		onset := row.Note != nil
		if (i == 0 || i == 4) != onset {
			t.Errorf("bd row %d: note = %v", i, row.Note)
		}
	}
	if !bd.Rows[1].Hold || bd.Rows[2].Hold {
		t.Errorf("bd should hold through its half cycle only: %+v", bd.Rows)
	}
}

func TestRenderNotes(t *testing.T) {
	pat := strudel.N(strudel.Sequence(0, 7)).WithControl("s", "piano")
	s, err := score.Render(pat, 1, 2)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	piano, ok := s.Track("piano")
	if !ok {
		t.Fatalf("no piano track")
	}
	if piano.Rows[0].Note == nil || *piano.Rows[0].Note != 60 {
		t.Errorf("row 0 note = %v, expected 60", piano.Rows[0].Note)
	}
	if piano.Rows[1].Note == nil || *piano.Rows[1].Note != 67 {
		t.Errorf("row 1 note = %v, expected 67", piano.Rows[1].Note)
	}
}

func TestRenderRejectsBadDimensions(t *testing.T) {
	if _, err := score.Render(strudel.Silence, 0, 16); err == nil {
		t.Errorf("zero cycles should fail")
	}
	if _, err := score.Render(strudel.Silence, 4, 0); err == nil {
		t.Errorf("zero rows should fail")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	pat := strudel.Stack(
		strudel.Sound(strudel.Sequence("bd", "sn")),
		strudel.N(strudel.Sequence(0, 3, 5)).WithControl("s", "bass"),
	)
	s, err := score.Render(pat, 2, 8)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	var buf bytes.Buffer
	if err := s.WriteYAML(&buf); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	back, err := score.ReadYAML(&buf)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !reflect.DeepEqual(s, back) {
		t.Errorf("round trip changed the score:\n%+v\n%+v", s, back)
	}
}

func TestCopyIsDeep(t *testing.T) {
	pat := strudel.Sound(strudel.Sequence("bd"))
	s, err := score.Render(pat, 1, 4)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	dup := s.Copy()
	note := 99
	dup.Tracks[0].Rows[0].Note = &note
	if s.Tracks[0].Rows[0].Note != nil && *s.Tracks[0].Rows[0].Note == 99 {
		t.Errorf("copy shares rows with the original")
	}
}

package game

import (
	"math/rand"
	"strings"
	"testing"
)

var scale = Answer{
	Song:     "Test Scale",
	Sequence: []string{"C4", "D4", "E4", "F4", "G4", "A4"},
}

func typeRow(t *testing.T, s State, letters string) State {
	t.Helper()
	for _, r := range letters {
		s, _ = s.Press(string(r))
	}
	return s
}

func TestScore(t *testing.T) {
	M, C, I := MarkMisplaced, MarkCorrect, MarkIncorrect
	tests := []struct {
		name   string
		answer string
		guess  string
		want   []Mark
	}{
		{"exact", "CDEFGA", "CDEFGA", []Mark{C, C, C, C, C, C}},
		{"duplicate with no spare", "CDEFGA", "CCEFGA", []Mark{C, I, C, C, C, C}},
		{"rotated", "CDEFGA", "ACDEFG", []Mark{M, M, M, M, M, M}},
		{"all absent", "CDEFGA", "BBBBBB", []Mark{I, I, I, I, I, I}},
		{"repeated guess letter within budget", "CDDEFG", "DAADAA", []Mark{M, I, I, M, I, I}},
		{"hit consumes before misplaced", "ABCDEF", "BBBBBB", []Mark{I, C, I, I, I, I}},
		{"repeated answer letters", "EEFGGF", "FEEGFF", []Mark{M, C, M, C, I, C}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.answer, tt.guess)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("cell %d = %q, want %q (all: %v)", i, got[i], tt.want[i], got)
				}
			}
		})
	}
}

func TestScoreNeverExceedsLetterBudget(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const letters = "ABCDEFG"
	randSeq := func() string {
		b := make([]byte, Cols)
		for i := range b {
			b[i] = letters[rng.Intn(len(letters))]
		}
		return string(b)
	}

	for n := 0; n < 5000; n++ {
		answer, guess := randSeq(), randSeq()
		marks := Score(answer, guess)
		for _, l := range letters {
			credited := 0
			for i, m := range marks {
				if rune(guess[i]) == l && (m == MarkCorrect || m == MarkMisplaced) {
					credited++
				}
			}
			if occ := strings.Count(answer, string(l)); credited > occ {
				t.Fatalf("answer %s guess %s: letter %c credited %d times, occurs %d", answer, guess, l, credited, occ)
			}
		}
	}
}

func TestPressNotes(t *testing.T) {
	s := New(scale)

	s, effects := s.Press("c")
	if s.Grid[0] != "C" {
		t.Fatalf("row = %q, want C", s.Grid[0])
	}
	if len(effects) != 1 || effects[0].Kind != EffectPlayNote || effects[0].Notes[0] != "C4" || effects[0].Position != 0 {
		t.Fatalf("effects = %+v", effects)
	}

	s = typeRow(t, s, "DEFGAB")
	if s.Grid[0] != "CDEFGA" {
		t.Fatalf("row = %q, want CDEFGA (seventh note must be dropped)", s.Grid[0])
	}
}

func TestPressDoesNotMutateInput(t *testing.T) {
	before := New(scale)
	after, _ := before.Press("E")
	if before.Grid[0] != "" {
		t.Fatalf("input state mutated: %q", before.Grid[0])
	}
	if after.Grid[0] != "E" {
		t.Fatalf("output row = %q", after.Grid[0])
	}
}

func TestPressInvalidKeys(t *testing.T) {
	tests := []struct {
		key     string
		wantErr string
	}{
		{"h", "H is not a valid note."},
		{"Z", "Z is not a valid note."},
		{"1", "1 is not a valid note."},
		{"Shift", ""},
		{"ArrowLeft", ""},
		{",", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			s, _ := New(scale).Press(tt.key)
			if s.Error != tt.wantErr {
				t.Errorf("error = %q, want %q", s.Error, tt.wantErr)
			}
			if s.Grid[0] != "" {
				t.Errorf("row changed to %q", s.Grid[0])
			}
		})
	}
}

func TestValidKeyClearsError(t *testing.T) {
	s, _ := New(scale).Press("x")
	if s.Error == "" {
		t.Fatal("expected error")
	}
	s, _ = s.Press("a")
	if s.Error != "" {
		t.Fatalf("error not cleared: %q", s.Error)
	}
}

func TestBackspace(t *testing.T) {
	s, _ := New(scale).Press("Backspace")
	if s.Grid[0] != "" {
		t.Fatalf("empty row after backspace = %q", s.Grid[0])
	}

	s = typeRow(t, s, "CDE")
	s, _ = s.Press("Backspace")
	if s.Grid[0] != "CD" {
		t.Fatalf("row = %q, want CD", s.Grid[0])
	}
}

func TestSubmitIncomplete(t *testing.T) {
	s := typeRow(t, New(scale), "CDE")
	next, effects := s.Submit()
	if next.Row != 0 || next.Over {
		t.Fatalf("row=%d over=%v, want unchanged", next.Row, next.Over)
	}
	if next.Error != msgIncomplete {
		t.Fatalf("error = %q", next.Error)
	}
	if len(effects) != 1 || effects[0].Kind != EffectShowError {
		t.Fatalf("effects = %+v", effects)
	}
	if next.Grid != s.Grid {
		t.Fatal("grid changed on incomplete submit")
	}
}

func TestSubmitWin(t *testing.T) {
	s := typeRow(t, New(scale), "cdefga")
	s, effects := s.Press("Enter")
	if !s.Over || !s.Won {
		t.Fatalf("over=%v won=%v, want both", s.Over, s.Won)
	}
	if s.Row != 0 {
		t.Fatalf("row = %d, want 0", s.Row)
	}
	for i, m := range s.Feedback()[0] {
		if m != MarkCorrect {
			t.Errorf("cell %d = %q", i, m)
		}
	}
	if !strings.Contains(s.Notice, "Test Scale") || !strings.Contains(s.Notice, "1 try") {
		t.Fatalf("notice = %q", s.Notice)
	}
	if len(effects) != 2 || effects[0].Kind != EffectPlaySequence || effects[1].Kind != EffectShowNotice {
		t.Fatalf("effects = %+v", effects)
	}

	after, effects := s.Press("C")
	if after.Grid != s.Grid || after.Error != s.Error || effects != nil {
		t.Fatal("input accepted after game over")
	}
}

func TestSubmitMissAdvances(t *testing.T) {
	s := typeRow(t, New(scale), "CCEFGA")
	s, effects := s.Submit()
	if s.Over || s.Row != 1 {
		t.Fatalf("over=%v row=%d, want playing on row 1", s.Over, s.Row)
	}
	if s.Error != msgTryAgain {
		t.Fatalf("error = %q", s.Error)
	}
	want := []Mark{MarkCorrect, MarkIncorrect, MarkCorrect, MarkCorrect, MarkCorrect, MarkCorrect}
	got := s.Feedback()[0]
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, got[i], want[i])
		}
	}
	if len(effects) == 0 || effects[0].Kind != EffectPlaySequence || strings.Join(effects[0].Notes, " ") != "C4 C4 E4 F4 G4 A4" {
		t.Fatalf("effects = %+v", effects)
	}
	if s.Feedback()[1] != [Cols]Mark{} {
		t.Fatal("unsubmitted row has marks")
	}
}

func TestSixMissesLose(t *testing.T) {
	s := New(scale)
	for i := 0; i < Rows; i++ {
		s = typeRow(t, s, "ACDEFG")
		s, _ = s.Submit()
	}
	if !s.Over || s.Won {
		t.Fatalf("over=%v won=%v, want lost", s.Over, s.Won)
	}
	if s.Row != Rows-1 {
		t.Fatalf("row = %d, want %d", s.Row, Rows-1)
	}
	if !strings.Contains(s.Notice, "C D E F G A") || !strings.Contains(s.Notice, "Test Scale") {
		t.Fatalf("notice = %q", s.Notice)
	}
	v := s.View()
	if v.Answer != "CDEFGA" || v.Song != "Test Scale" || v.Tries != Rows {
		t.Fatalf("view = %+v", v)
	}
}

func TestViewHidesAnswerWhilePlaying(t *testing.T) {
	v := New(scale).View()
	if v.Song != "" || v.Answer != "" {
		t.Fatalf("answer leaked: %+v", v)
	}
}

func TestListenReplayDismiss(t *testing.T) {
	s := New(scale)
	_, effects := s.Listen()
	if len(effects) != 1 || strings.Join(effects[0].Notes, ",") != "C4,D4,E4,F4,G4,A4" {
		t.Fatalf("listen effects = %+v", effects)
	}

	if _, effects := s.Replay(0); effects != nil {
		t.Fatalf("replay of empty row = %+v", effects)
	}
	s = typeRow(t, s, "GA")
	if _, effects := s.Replay(0); len(effects) != 1 || strings.Join(effects[0].Notes, ",") != "G4,A4" {
		t.Fatalf("replay effects = %+v", effects)
	}
	if _, effects := s.Replay(9); effects != nil {
		t.Fatal("out-of-range replay produced effects")
	}

	s = New(scale)
	s = typeRow(t, s, "CDEFGA")
	s, _ = s.Submit()
	s, effects = s.Dismiss()
	if s.Notice != "" || len(effects) != 1 || effects[0].Kind != EffectDismissNotice {
		t.Fatalf("dismiss: notice=%q effects=%+v", s.Notice, effects)
	}
	if _, effects := s.Dismiss(); effects != nil {
		t.Fatal("second dismiss produced effects")
	}
}

func TestAnswerLettersAndOctave(t *testing.T) {
	a := Answer{Song: "x", Sequence: []string{"d#5", "Bb3", "G", "E4", "F4", "C5"}}
	if got := a.Letters(); got != "DBGEFC" {
		t.Fatalf("letters = %q", got)
	}
	if got := a.octave(0); got != "5" {
		t.Errorf("octave(0) = %q", got)
	}
	if got := a.octave(1); got != "3" {
		t.Errorf("octave(1) = %q", got)
	}
	if got := a.octave(2); got != "" {
		t.Errorf("octave(2) = %q", got)
	}
}

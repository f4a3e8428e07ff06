package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/musicwordle/internal/game"
)

type recorder struct {
	played [][]string
}

func (r *recorder) Play(notes []string) { r.played = append(r.played, notes) }

func ode() game.Answer {
	return game.Answer{Song: "Ode to Joy", Sequence: []string{"E4", "E4", "F4", "G4", "G4", "F4"}}
}

func newUI(t *testing.T) (*UI, tcell.SimulationScreen, *recorder) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(100, 20)

	rec := &recorder{}
	return New(screen, ode, rec), screen, rec
}

func typeRunes(u *UI, s string) {
	for _, r := range s {
		u.handleKey(tcell.KeyRune, r)
	}
}

func rowText(s tcell.Screen, row int) string {
	var b []rune
	for c := 0; c < game.Cols; c++ {
		r, _, _, _ := s.GetContent(gridX+c*cellW+1, gridY+row)
		b = append(b, r)
	}
	return string(b)
}

func TestTypingPlaysNotes(t *testing.T) {
	u, screen, rec := newUI(t)

	typeRunes(u, "cdx")
	if got := u.State().Grid[0]; got != "CD" {
		t.Fatalf("grid = %q, want CD", got)
	}
	if u.State().Error != "X is not a valid note." {
		t.Fatalf("error = %q", u.State().Error)
	}
	if len(rec.played) != 2 || rec.played[0][0] != "C4" || rec.played[1][0] != "D4" {
		t.Fatalf("played = %v", rec.played)
	}

	u.handleKey(tcell.KeyBackspace2, 0)
	u.Draw()
	if got := rowText(screen, 0); got != "C_____" {
		t.Fatalf("row 0 = %q", got)
	}
}

func TestSubmitColoursRow(t *testing.T) {
	u, screen, rec := newUI(t)

	typeRunes(u, "cdefga")
	u.handleKey(tcell.KeyEnter, 0)
	if u.State().Row != 1 {
		t.Fatalf("row = %d, want 1", u.State().Row)
	}
	if last := rec.played[len(rec.played)-1]; len(last) != game.Cols {
		t.Fatalf("last playback = %v, want the whole row", last)
	}

	u.Draw()
	// E at position 2 is misplaced, F at 3 misplaced, G at 4 correct
	_, _, st, _ := screen.GetContent(gridX+4*cellW+1, gridY)
	if _, bg, _ := st.Decompose(); bg != tcell.ColorGreen {
		t.Fatalf("G cell background = %v, want green", bg)
	}
	_, _, st, _ = screen.GetContent(gridX+0*cellW+1, gridY)
	if _, bg, _ := st.Decompose(); bg != tcell.ColorDimGray {
		t.Fatalf("C cell background = %v, want dim gray", bg)
	}
}

func TestListenReplayAndNotice(t *testing.T) {
	u, _, rec := newUI(t)

	u.handleKey(tcell.KeyRune, ' ')
	if len(rec.played) != 1 || len(rec.played[0]) != game.Cols {
		t.Fatalf("listen played %v", rec.played)
	}

	// nothing submitted yet
	u.handleKey(tcell.KeyCtrlP, 0)
	if len(rec.played) != 1 {
		t.Fatalf("replay with no rows played %v", rec.played)
	}

	typeRunes(u, "eefggf")
	u.handleKey(tcell.KeyEnter, 0)
	s := u.State()
	if !s.Over || !s.Won || s.Notice == "" {
		t.Fatalf("expected won game with notice, got %+v", s)
	}

	n := len(rec.played)
	u.handleKey(tcell.KeyCtrlP, 0)
	if len(rec.played) != n {
		t.Fatal("key while notice is up should only dismiss")
	}
	if u.State().Notice != "" {
		t.Fatal("notice not dismissed")
	}
	u.handleKey(tcell.KeyCtrlP, 0)
	if len(rec.played) != n+1 {
		t.Fatal("replay after game over should play the winning row")
	}
}

func TestNewGameAndQuit(t *testing.T) {
	u, _, _ := newUI(t)

	typeRunes(u, "abc")
	if !u.handleKey(tcell.KeyCtrlN, 0) {
		t.Fatal("ctrl-n should not quit")
	}
	if u.State().Grid[0] != "" || u.games != 2 {
		t.Fatalf("new game not started: %+v", u.State())
	}
	if u.handleKey(tcell.KeyEscape, 0) {
		t.Fatal("escape should quit")
	}
}

func TestDrawShowsStatus(t *testing.T) {
	u, screen, _ := newUI(t)
	u.Draw()

	y := gridY + game.Rows + 3
	want := "Try 1 of 6"
	for i, r := range want {
		got, _, _, _ := screen.GetContent(gridX+i, y)
		if got != r {
			t.Fatalf("status line differs at %d: %q", i, got)
		}
	}
}

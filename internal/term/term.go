// Package term is the terminal host for the game: it turns tcell events into
// board transitions, draws the board, and runs the resulting effects.
package term

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/musicwordle/internal/game"
)

// Player sounds a list of note clusters. Implementations must not block.
type Player interface {
	Play(notes []string)
}

// Mute is a Player that does nothing.
type Mute struct{}

func (Mute) Play([]string) {}

// UI owns one screen and the game shown on it.
type UI struct {
	screen tcell.Screen
	next   func() game.Answer
	player Player

	state game.State
	games int
}

// New starts a first game using next to choose answers.
func New(screen tcell.Screen, next func() game.Answer, player Player) *UI {
	if player == nil {
		player = Mute{}
	}
	u := &UI{screen: screen, next: next, player: player}
	u.newGame()
	return u
}

// State returns the current board.
func (u *UI) State() game.State { return u.state }

// Run processes events until the user quits or ctx ends. The caller owns
// the screen and must Fini it afterwards.
func (u *UI) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	u.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !u.Handle(ev) {
				return nil
			}
			u.Draw()
		}
	}
}

// Handle applies one event. It returns false when the user asked to quit.
func (u *UI) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return u.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			u.dismiss()
		}
	case *tcell.EventResize:
		u.screen.Sync()
	}
	return true
}

func (u *UI) handleKey(k tcell.Key, r rune) bool {
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyCtrlN:
		u.newGame()
		return true
	}

	// while the end-of-game notice is up any key only dismisses it
	if u.state.Notice != "" {
		u.dismiss()
		return true
	}

	switch k {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		u.step(u.state.Press("Backspace"))
	case tcell.KeyEnter:
		u.step(u.state.Press("Enter"))
	case tcell.KeyCtrlP:
		u.step(u.state.Replay(u.lastSubmitted()))
	case tcell.KeyRune:
		if r == ' ' {
			u.step(u.state.Listen())
			return true
		}
		u.step(u.state.Press(string(r)))
	}
	return true
}

func (u *UI) dismiss() {
	u.step(u.state.Dismiss())
}

func (u *UI) newGame() {
	a := u.next()
	u.state = game.New(a)
	u.games++
	log.Debug().Int("game", u.games).Msg("terminal game started")
}

// lastSubmitted is the most recent scored row, or -1.
func (u *UI) lastSubmitted() int {
	if u.state.Over {
		return u.state.Row
	}
	return u.state.Row - 1
}

func (u *UI) step(next game.State, effects []game.Effect) {
	u.state = next
	for _, e := range effects {
		switch e.Kind {
		case game.EffectPlayNote, game.EffectPlaySequence:
			u.player.Play(e.Notes)
		case game.EffectShowNotice:
			log.Info().Str("notice", e.Text).Msg("game over")
		}
	}
}

// ------------------------------- drawing -----------------------------------

const (
	gridX   = 2
	gridY   = 2
	cellW   = 4
	helpMsg = "A-G note  Enter submit  Backspace delete  Space listen  ^P replay  ^N new  Esc quit"
)

var (
	styleText      = tcell.StyleDefault
	styleEmpty     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleTyped     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleCorrect   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorGreen)
	styleMisplaced = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleIncorrect = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDimGray)
	styleError     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleNotice    = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
)

func markStyle(m game.Mark) tcell.Style {
	switch m {
	case game.MarkCorrect:
		return styleCorrect
	case game.MarkMisplaced:
		return styleMisplaced
	case game.MarkIncorrect:
		return styleIncorrect
	}
	return styleTyped
}

// Draw renders the whole board.
func (u *UI) Draw() {
	s := u.screen
	s.Clear()
	v := u.state.View()

	drawText(s, gridX, 0, styleText, "Musical Wordle")
	for r := 0; r < game.Rows; r++ {
		y := gridY + r
		for c := 0; c < game.Cols; c++ {
			x := gridX + c*cellW
			ch, st := '_', styleEmpty
			if c < len(v.Grid[r]) {
				ch, st = rune(v.Grid[r][c]), markStyle(v.Marks[r][c])
			}
			s.SetContent(x, y, ' ', nil, st)
			s.SetContent(x+1, y, ch, nil, st)
			s.SetContent(x+2, y, ' ', nil, st)
		}
		if r == v.Row && !v.Over {
			drawText(s, gridX+game.Cols*cellW, y, styleText, "<")
		}
	}

	y := gridY + game.Rows + 1
	if v.Error != "" {
		drawText(s, gridX, y, styleError, v.Error)
	}
	if v.Notice != "" {
		drawText(s, gridX, y+1, styleNotice, " "+v.Notice+" ")
	}
	drawText(s, gridX, y+2, styleText, status(v))
	drawText(s, gridX, y+4, styleEmpty, helpMsg)
	s.Show()
}

func status(v game.View) string {
	switch {
	case v.Over && v.Won:
		return fmt.Sprintf("Solved in %d. Ctrl-N for another.", v.Tries)
	case v.Over:
		return fmt.Sprintf("It was %s (%s). Ctrl-N for another.", v.Song, v.Answer)
	}
	return fmt.Sprintf("Try %d of %d", v.Row+1, game.Rows)
}

func drawText(s tcell.Screen, x, y int, st tcell.Style, text string) {
	for i, r := range []rune(text) {
		s.SetContent(x+i, y, r, nil, st)
	}
}

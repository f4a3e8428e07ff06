// internal/game/engine.go
//
// Core game engine for a single musical guessing session.
// Responsibilities:
//   - Create new boards for a given answer (6 rows x 6 notes).
//   - Validate keystrokes (note letters, backspace, enter).
//   - Score submitted rows using the two-pass frequency-budgeted algorithm.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Every transition is pure: it takes a State by value and returns the
//     next State plus the effects the host should run.
//   - Validation failures are reported through State.Error, never as Go errors.
package game

import (
	"fmt"
	"strings"
)

const (
	msgIncomplete = "Please fill out all the notes."
	msgTryAgain   = "Please try again."
)

// New constructs a board for the given answer.
func New(answer Answer) State {
	return State{Answer: answer}
}

// Press applies a single keystroke.
//
// Key policy:
//   - "Backspace" drops the last note of the current row.
//   - "Enter" submits the current row.
//   - a–g / A–G append the upper-case note while the row has room.
//   - any other single letter or digit is rejected with a message.
//   - everything else (modifiers, arrows, punctuation) is ignored.
func (s State) Press(key string) (State, []Effect) {
	if s.Over {
		return s, nil
	}
	switch {
	case key == "Backspace":
		row := s.Grid[s.Row]
		if len(row) > 0 {
			s.Grid[s.Row] = row[:len(row)-1]
		}
		s.Error = ""
		return s, nil

	case key == "Enter":
		return s.Submit()

	case IsNote(key):
		s.Error = ""
		row := s.Grid[s.Row]
		if len(row) >= Cols {
			return s, nil
		}
		note := strings.ToUpper(key)
		pos := len(row)
		s.Grid[s.Row] = row + note
		return s, []Effect{{
			Kind:     EffectPlayNote,
			Notes:    []string{note + s.Answer.octave(pos)},
			Row:      s.Row,
			Position: pos,
		}}

	case isAlnum(key):
		s.Error = fmt.Sprintf("%s is not a valid note.", strings.ToUpper(key))
		return s, []Effect{{Kind: EffectShowError, Row: s.Row, Text: s.Error}}
	}
	return s, nil
}

// Submit scores the current row.
//
// State transitions:
//   - fewer than Cols notes → error only, nothing else changes.
//   - exact match → Over, Won.
//   - miss on the last row → Over (loss), answer revealed in the notice.
//   - miss otherwise → Row advances.
func (s State) Submit() (State, []Effect) {
	if s.Over {
		return s, nil
	}
	guess := s.Grid[s.Row]
	if len(guess) < Cols {
		s.Error = msgIncomplete
		return s, []Effect{{Kind: EffectShowError, Row: s.Row, Text: s.Error}}
	}

	effects := []Effect{s.rowSequence(s.Row)}

	switch {
	case guess == s.Answer.Letters():
		s.Over, s.Won = true, true
		s.Error = ""
		s.Notice = winNotice(s.Answer.Song, s.Row+1)
		effects = append(effects, Effect{Kind: EffectShowNotice, Row: s.Row, Text: s.Notice})
	case s.Row == Rows-1:
		s.Over = true
		s.Error = ""
		s.Notice = lossNotice(s.Answer)
		effects = append(effects, Effect{Kind: EffectShowNotice, Row: s.Row, Text: s.Notice})
	default:
		s.Row++
		s.Error = msgTryAgain
		effects = append(effects, Effect{Kind: EffectShowError, Row: s.Row, Text: s.Error})
	}
	return s, effects
}

// Listen requests playback of the hidden tune.
func (s State) Listen() (State, []Effect) {
	notes := make([]string, len(s.Answer.Sequence))
	copy(notes, s.Answer.Sequence)
	return s, []Effect{{Kind: EffectPlaySequence, Notes: notes, Row: -1}}
}

// Replay requests playback of a previously entered row.
// Out-of-range and empty rows produce no effect.
func (s State) Replay(row int) (State, []Effect) {
	if row < 0 || row >= Rows || s.Grid[row] == "" {
		return s, nil
	}
	return s, []Effect{s.rowSequence(row)}
}

// Dismiss clears the end-of-game notice.
func (s State) Dismiss() (State, []Effect) {
	if s.Notice == "" {
		return s, nil
	}
	s.Notice = ""
	return s, []Effect{{Kind: EffectDismissNotice, Row: s.Row}}
}

// Tries reports how many full rows have been submitted.
func (s State) Tries() int {
	if s.Over {
		return s.Row + 1
	}
	return s.Row
}

// rowSequence builds a play_sequence effect for the letters of row, using the
// answer's octave at each position.
func (s State) rowSequence(row int) Effect {
	guess := s.Grid[row]
	notes := make([]string, 0, len(guess))
	for i := 0; i < len(guess); i++ {
		notes = append(notes, guess[i:i+1]+s.Answer.octave(i))
	}
	return Effect{Kind: EffectPlaySequence, Notes: notes, Row: row}
}

// Score implements the two-pass frequency-budgeted scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Budget the remaining (unmatched) answer letters by letter.
//
// Pass 2:
//   - For each other guess letter: if the letter still has budget, mark it
//     misplaced and spend one; otherwise mark it incorrect.
//
// A letter therefore never earns more correct+misplaced marks than it occurs
// in the answer.
func Score(answer, guess string) []Mark {
	n := len(guess)
	res := make([]Mark, n)

	var budget [7]int

	for i := 0; i < n; i++ {
		if i < len(answer) && guess[i] == answer[i] {
			res[i] = MarkCorrect
		} else if i < len(answer) {
			if j := noteIdx(answer[i]); j >= 0 {
				budget[j]++
			}
		}
	}
	// answer letters past the guess length still count as unmatched
	for i := n; i < len(answer); i++ {
		if j := noteIdx(answer[i]); j >= 0 {
			budget[j]++
		}
	}

	for i := 0; i < n; i++ {
		if res[i] == MarkCorrect {
			continue
		}
		j := noteIdx(guess[i])
		if j >= 0 && budget[j] > 0 {
			res[i] = MarkMisplaced
			budget[j]--
		} else {
			res[i] = MarkIncorrect
		}
	}
	return res
}

// IsNote reports whether key is a single note letter, either case.
func IsNote(key string) bool {
	return len(key) == 1 && noteIdx(strings.ToUpper(key)[0]) >= 0
}

// noteIdx maps an upper-case note letter to 0..6, or -1.
func noteIdx(c byte) int {
	if c < 'A' || c > 'G' {
		return -1
	}
	return int(c - 'A')
}

// isAlnum reports whether key is a single ASCII letter or digit.
func isAlnum(key string) bool {
	if len(key) != 1 {
		return false
	}
	c := key[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func winNotice(song string, tries int) string {
	unit := "tries"
	if tries == 1 {
		unit = "try"
	}
	return fmt.Sprintf("Congratulations! You found %q in %d %s.", song, tries, unit)
}

func lossNotice(a Answer) string {
	letters := strings.Split(a.Letters(), "")
	return fmt.Sprintf("Out of tries! The song was %q: %s.", a.Song, strings.Join(letters, " "))
}

// internal/game/types.go
//
// Core type definitions for the musical guessing engine.
// Defines:
//   - Mark: per-cell result of a submitted row.
//   - Answer: the hidden song for one game.
//   - State: the whole board, passed by value through transitions.
//   - Effect: side-effect requests a host executes after a transition.

package game

import "strings"

const (
	// Rows is the number of attempts a player gets.
	Rows = 6
	// Cols is the number of notes in every sequence and every row.
	Cols = 6
)

// Mark represents the evaluation result for a single cell in a row.
//   - "":          row not yet submitted.
//   - "correct":   note is in the answer at this position.
//   - "misplaced": note is in the answer, unconsumed, elsewhere.
//   - "incorrect": note is not in the answer, or its budget is spent.
type Mark string

const (
	MarkNone      Mark = ""
	MarkCorrect   Mark = "correct"
	MarkMisplaced Mark = "misplaced"
	MarkIncorrect Mark = "incorrect"
)

// Answer is the target record selected at session start.
// Each cluster starts with a note letter A–G; the remainder carries octave
// information for playback only (e.g. "C4", "D#5").
type Answer struct {
	Song     string   `json:"song"`
	Sequence []string `json:"sequence"`
}

// Letters returns the upper-case note letters scored against guesses.
func (a Answer) Letters() string {
	var b strings.Builder
	for _, c := range a.Sequence {
		if c == "" {
			continue
		}
		b.WriteString(strings.ToUpper(c[:1]))
	}
	return b.String()
}

// octave returns the playback suffix of the cluster at pos ("" if none).
func (a Answer) octave(pos int) string {
	if pos < 0 || pos >= len(a.Sequence) || len(a.Sequence[pos]) < 2 {
		return ""
	}
	c := a.Sequence[pos]
	// keep accidentals out; the player only ever enters naturals
	rest := c[1:]
	return strings.TrimLeft(rest, "#b")
}

// State holds the whole board for one game.
// Transition methods use value receivers and return a new State; the caller's
// copy is never modified.
type State struct {
	Answer Answer       `json:"answer"`
	Grid   [Rows]string `json:"grid"`   // guessed letters per row
	Row    int          `json:"row"`    // index of the editable row
	Over   bool         `json:"over"`   // no further input accepted
	Won    bool         `json:"won"`    // meaningful once Over
	Error  string       `json:"error"`  // transient validation message
	Notice string       `json:"notice"` // end-of-game message until dismissed
}

// EffectKind names a side effect requested by a transition.
type EffectKind string

const (
	EffectPlayNote      EffectKind = "play_note"
	EffectPlaySequence  EffectKind = "play_sequence"
	EffectShowError     EffectKind = "show_error"
	EffectShowNotice    EffectKind = "show_notice"
	EffectDismissNotice EffectKind = "dismiss_notice"
)

// Effect is a fire-and-forget request for the host shell.
type Effect struct {
	Kind     EffectKind `json:"kind"`
	Notes    []string   `json:"notes,omitempty"`    // playable clusters, e.g. "C4"
	Row      int        `json:"row"`                // row the effect refers to
	Position int        `json:"position,omitempty"` // cell for play_note
	Text     string     `json:"text,omitempty"`     // message for show_*
}

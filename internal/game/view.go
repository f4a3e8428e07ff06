package game

// View is the read-only projection handed to rendering layers.
// Song and Answer stay empty until the game is over.
type View struct {
	Grid   [Rows]string     `json:"grid"`
	Row    int              `json:"row"`
	Marks  [Rows][Cols]Mark `json:"marks"`
	Error  string           `json:"error"`
	Notice string           `json:"notice"`
	Over   bool             `json:"over"`
	Won    bool             `json:"won"`
	Tries  int              `json:"tries"`
	Song   string           `json:"song,omitempty"`
	Answer string           `json:"answer,omitempty"`
}

// Feedback derives the marks of every submitted row.
// Rows before Row are submitted; Row itself only once the game is over.
func (s State) Feedback() [Rows][Cols]Mark {
	var out [Rows][Cols]Mark
	answer := s.Answer.Letters()
	for r := 0; r < Rows; r++ {
		if !s.submitted(r) {
			continue
		}
		copy(out[r][:], Score(answer, s.Grid[r]))
	}
	return out
}

func (s State) submitted(r int) bool {
	if r < s.Row {
		return true
	}
	return r == s.Row && s.Over
}

// View builds the rendering projection of s.
func (s State) View() View {
	v := View{
		Grid:   s.Grid,
		Row:    s.Row,
		Marks:  s.Feedback(),
		Error:  s.Error,
		Notice: s.Notice,
		Over:   s.Over,
		Won:    s.Won,
		Tries:  s.Tries(),
	}
	if s.Over {
		v.Song = s.Answer.Song
		v.Answer = s.Answer.Letters()
	}
	return v
}

package game

import (
	"time"

	"github.com/google/uuid"
)

// Game wraps a board with the bookkeeping hosts need to address and expire it.
type Game struct {
	ID        string    `json:"id"`
	Mode      string    `json:"mode"` // "random" | "daily" | "fixed"
	State     State     `json:"state"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewGame starts a game for answer with a fresh random ID.
func NewGame(mode string, answer Answer) *Game {
	now := time.Now().UTC()
	return &Game{
		ID:        uuid.NewString(),
		Mode:      mode,
		State:     New(answer),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Apply stores next as the current state and bumps UpdatedAt.
func (g *Game) Apply(next State) {
	g.State = next
	g.UpdatedAt = time.Now().UTC()
}

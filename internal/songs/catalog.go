// internal/songs/catalog.go
//
// Song table management for the answer provider.
//
// Responsibilities:
//   - Parse the YAML song table (embedded default or a file on disk).
//   - Keep only playable entries: exactly six clusters, each led by A–G.
//   - Pick answers: random, by daily index, or by name.
//
// Song table format:
//   - name: Ode to Joy
//     notes: [E4, E4, F4, G4, G4, F4]
//
// Constraints:
//   • Invalid entries are skipped with a warning, never fatal on their own.
//   • A table that ends up empty is an error.
//   • Reads and reloads are guarded by an RWMutex so a watcher can swap the
//     table while games are being created.

package songs

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/robalobadob/musicwordle/assets"
	"github.com/robalobadob/musicwordle/internal/game"
)

// ErrEmpty is returned when no playable song survives validation.
var ErrEmpty = errors.New("songs: catalog is empty")

// ErrUnknownSong is returned by ByName for names not in the table.
var ErrUnknownSong = errors.New("songs: unknown song")

// entry is one row of the YAML table.
type entry struct {
	Name  string   `yaml:"name"`
	Notes []string `yaml:"notes"`
}

// Catalog holds the loaded song table.
type Catalog struct {
	mu     sync.RWMutex
	songs  []game.Answer
	byName map[string]int
	source string // file path, or "" for the embedded default
}

// Load reads the table at path, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	c := &Catalog{source: path}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Reload re-reads the catalog source and swaps the table in.
// On error the previous table stays active.
func (c *Catalog) Reload() error {
	var (
		raw []byte
		err error
	)
	if c.source == "" {
		raw, err = assets.DefaultSongs()
	} else {
		raw, err = os.ReadFile(c.source)
	}
	if err != nil {
		return fmt.Errorf("read song table: %w", err)
	}

	list, err := Parse(raw)
	if err != nil {
		return err
	}

	idx := make(map[string]int, len(list))
	for i, a := range list {
		idx[strings.ToLower(a.Song)] = i
	}

	c.mu.Lock()
	c.songs = list
	c.byName = idx
	c.mu.Unlock()
	return nil
}

// Parse decodes a YAML song table and keeps the valid entries.
func Parse(raw []byte) ([]game.Answer, error) {
	var rows []entry
	if err := yaml.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("parse song table: %w", err)
	}

	out := make([]game.Answer, 0, len(rows))
	for i, r := range rows {
		name := strings.TrimSpace(r.Name)
		if err := validate(name, r.Notes); err != nil {
			log.Warn().Err(err).Int("entry", i).Str("song", name).Msg("skipping song")
			continue
		}
		notes := make([]string, len(r.Notes))
		for j, n := range r.Notes {
			n = strings.TrimSpace(n)
			notes[j] = strings.ToUpper(n[:1]) + n[1:]
		}
		out = append(out, game.Answer{Song: name, Sequence: notes})
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// validate checks one table row.
func validate(name string, notes []string) error {
	if name == "" {
		return errors.New("missing name")
	}
	if len(notes) != game.Cols {
		return fmt.Errorf("want %d notes, got %d", game.Cols, len(notes))
	}
	for _, n := range notes {
		n = strings.TrimSpace(n)
		if n == "" || !game.IsNote(n[:1]) {
			return fmt.Errorf("bad note %q", n)
		}
	}
	return nil
}

// Len reports the number of loaded songs.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.songs)
}

// All returns a copy of the loaded table.
func (c *Catalog) All() []game.Answer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]game.Answer(nil), c.songs...)
}

// At returns the song at index i modulo the table size.
func (c *Catalog) At(i int) game.Answer {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := len(c.songs)
	return c.songs[((i%n)+n)%n]
}

// Random returns a cryptographically random song.
func (c *Catalog) Random() game.Answer {
	c.mu.RLock()
	n := len(c.songs)
	c.mu.RUnlock()
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return c.At(0)
	}
	return c.At(int(nBig.Int64()))
}

// ByName looks a song up case-insensitively.
func (c *Catalog) ByName(name string) (game.Answer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return game.Answer{}, fmt.Errorf("%w: %q", ErrUnknownSong, name)
	}
	return c.songs[i], nil
}

// Source reports the file backing the catalog ("" for the embedded table).
func (c *Catalog) Source() string { return c.source }

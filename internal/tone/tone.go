// Package tone turns note clusters ("C4", "D#5") into sine tones and plays
// them on the default audio device. Playback is fire-and-forget.
package tone

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const (
	SampleRate = beep.SampleRate(44100)

	noteLength = 350 * time.Millisecond
	noteGap    = 50 * time.Millisecond

	defaultOctave = 4
)

// semitones from A within one octave
var semitones = map[byte]int{'C': -9, 'D': -7, 'E': -5, 'F': -4, 'G': -2, 'A': 0, 'B': 2}

// Frequency returns the equal-temperament pitch of a cluster, A4 = 440 Hz.
// A missing octave means octave 4.
func Frequency(cluster string) (float64, error) {
	c := strings.TrimSpace(cluster)
	if c == "" {
		return 0, fmt.Errorf("tone: empty note")
	}
	base, ok := semitones[strings.ToUpper(c[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("tone: bad note %q", cluster)
	}
	rest := c[1:]
	switch {
	case strings.HasPrefix(rest, "#"):
		base++
		rest = rest[1:]
	case strings.HasPrefix(rest, "b"):
		base--
		rest = rest[1:]
	}
	octave := defaultOctave
	if rest != "" {
		n, err := strconv.Atoi(rest)
		if err != nil {
			return 0, fmt.Errorf("tone: bad octave in %q", cluster)
		}
		octave = n
	}
	semis := base + (octave-defaultOctave)*12
	return 440 * math.Pow(2, float64(semis)/12), nil
}

// Sequence builds one streamer playing notes back to back.
// Unparseable notes become rests so the rhythm is kept.
func Sequence(sr beep.SampleRate, notes []string) beep.Streamer {
	parts := make([]beep.Streamer, 0, 2*len(notes))
	for _, n := range notes {
		f, err := Frequency(n)
		if err != nil {
			parts = append(parts, beep.Silence(sr.N(noteLength)))
		} else if sine, err := generators.SineTone(sr, f); err != nil {
			parts = append(parts, beep.Silence(sr.N(noteLength)))
		} else {
			parts = append(parts, &effects.Volume{
				Streamer: beep.Take(sr.N(noteLength), sine),
				Base:     2,
				Volume:   -2,
			})
		}
		parts = append(parts, beep.Silence(sr.N(noteGap)))
	}
	return beep.Seq(parts...)
}

// Player plays sequences on the speaker.
type Player struct {
	sr beep.SampleRate
}

// NewPlayer initialises the speaker.
func NewPlayer() (*Player, error) {
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("tone: init speaker: %w", err)
	}
	return &Player{sr: SampleRate}, nil
}

// Play replaces whatever is sounding with notes.
func (p *Player) Play(notes []string) {
	if len(notes) == 0 {
		return
	}
	speaker.Clear()
	speaker.Play(Sequence(p.sr, notes))
}

// Close stops playback and releases the device.
func (p *Player) Close() {
	speaker.Clear()
	speaker.Close()
}

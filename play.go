package main

import (
	"context"
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/robalobadob/musicwordle/internal/daily"
	"github.com/robalobadob/musicwordle/internal/game"
	"github.com/robalobadob/musicwordle/internal/songs"
	"github.com/robalobadob/musicwordle/internal/term"
	"github.com/robalobadob/musicwordle/internal/tone"
)

func newPlayCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, closeLog, err := cfg.logWriter()
			if err != nil {
				return err
			}
			defer closeLog()
			if err := cfg.setupLogging(w); err != nil {
				return err
			}
			return play(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.BoolVarP(&cfg.mute, "mute", "m", false, "do not play tones (env: MWORDLE_MUTE)")
	fs.BoolVar(&cfg.daily, "daily", false, "start with the song of the day (env: MWORDLE_DAILY)")
	fs.StringVar(&cfg.dailySalt, "daily-salt", "", "salt for the song of the day (env: MWORDLE_DAILY_SALT)")
	fs.StringVar(&cfg.song, "song", "", "start with this song (env: MWORDLE_SONG)")
	fs.StringVar(&cfg.logFile, "log-file", "", "write logs here instead of discarding them (env: MWORDLE_LOG_FILE)")
	bindEnv(v, fs)

	return cmd
}

// answerSource returns the answer picker for terminal games: the first game
// honours --song or --daily, later ones are random.
func answerSource(cfg *Config, cat *songs.Catalog) (func() game.Answer, error) {
	var first *game.Answer
	switch {
	case cfg.song != "":
		a, err := cat.ByName(cfg.song)
		if err != nil {
			return nil, err
		}
		first = &a
	case cfg.daily:
		a := cat.At(daily.SongIndex(time.Now(), cfg.dailySalt, cat.Len()))
		first = &a
	}
	return func() game.Answer {
		if first != nil {
			a := *first
			first = nil
			return a
		}
		return cat.Random()
	}, nil
}

func play(ctx context.Context, cfg *Config) error {
	cat, err := songs.Load(cfg.songsFile)
	if err != nil {
		return err
	}
	next, err := answerSource(cfg, cat)
	if err != nil {
		return err
	}

	var player term.Player = term.Mute{}
	if !cfg.mute {
		p, err := tone.NewPlayer()
		if err != nil {
			log.Warn().Err(err).Msg("no audio device; playing muted")
		} else {
			defer p.Close()
			player = p
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	err = term.New(screen, next, player).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const releaseVersion = "0.1.0"

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := &Config{}
	if err := newCmd(cfg).ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("musicwordle")
		stop()
		os.Exit(1)
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := newViper()

	cmd := &cobra.Command{
		Use:     "musicwordle",
		Short:   "Guess the six-note tune in six tries.",
		Args:    cobra.NoArgs,
		Version: releaseVersion,
	}

	pfs := cmd.PersistentFlags()
	pfs.StringVar(&cfg.logLevel, "log-level", "info", "zerolog level (env: MWORDLE_LOG_LEVEL)")
	pfs.BoolVar(&cfg.logPretty, "log-pretty", false, "human-readable log output (env: MWORDLE_LOG_PRETTY)")
	pfs.StringVar(&cfg.songsFile, "songs", "", "YAML song table; empty uses the built-in table (env: MWORDLE_SONGS)")
	bindEnv(v, pfs)

	cmd.AddCommand(newServeCmd(cfg, v), newPlayCmd(cfg, v), newSongsCmd(cfg))

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("musicwordle v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/sourcegraph/conc/pool"

	"github.com/robalobadob/musicwordle/internal/httpserver"
	"github.com/robalobadob/musicwordle/internal/songs"
	"github.com/robalobadob/musicwordle/internal/store"
)

func newServeCmd(cfg *Config, v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser game and its HTTP/WebSocket API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.setupLogging(os.Stderr); err != nil {
				return err
			}
			if err := cfg.validateServe(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: MWORDLE_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 5175, "port to listen on (env: MWORDLE_PORT)")
	fs.StringVar(&cfg.storeKind, "store", "memory", "game store: memory or sqlite (env: MWORDLE_STORE)")
	fs.StringVar(&cfg.dbPath, "db", "./data/musicwordle.db", "sqlite database path (env: MWORDLE_DB)")
	fs.BoolVar(&cfg.watch, "watch", false, "reload --songs when the file changes (env: MWORDLE_WATCH)")
	fs.StringVar(&cfg.dailySalt, "daily-salt", "", "salt for the song of the day (env: MWORDLE_DAILY_SALT)")
	fs.StringVar(&cfg.secret, "secret", "", "HS256 key for game tokens (env: MWORDLE_SECRET)")
	fs.DurationVar(&cfg.tokenTTL, "token-ttl", 24*time.Hour, "game token lifetime (env: MWORDLE_TOKEN_TTL)")
	fs.DurationVar(&cfg.sessionTimeout, "session-timeout", 24*time.Hour, "time before idle games are pruned, 0 to keep forever (env: MWORDLE_SESSION_TIMEOUT)")
	fs.StringVar(&cfg.clientOrigin, "client-origin", "", "extra origin allowed for CORS and WebSocket (env: MWORDLE_CLIENT_ORIGIN)")
	fs.BoolVar(&cfg.secure, "secure", false, "Secure, SameSite=None cookies (env: MWORDLE_SECURE)")
	bindEnv(v, fs)

	return cmd
}

func openStore(cfg *Config) (store.Store, error) {
	if cfg.storeKind == "sqlite" {
		return store.OpenSQLite(cfg.dbPath)
	}
	return store.NewMemoryStore(), nil
}

func serve(ctx context.Context, cfg *Config) error {
	cat, err := songs.Load(cfg.songsFile)
	if err != nil {
		return err
	}
	log.Info().Int("songs", cat.Len()).Str("source", cat.Source()).Msg("song table loaded")

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := httpserver.New(httpserver.Options{
		Store:        st,
		Songs:        cat,
		Secret:       cfg.secretBytes(),
		TokenTTL:     cfg.tokenTTL,
		DailySalt:    cfg.dailySalt,
		ClientOrigin: cfg.clientOrigin,
		Secure:       cfg.secure,
	})

	// the first failing task cancels the rest
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error { return srv.Start(ctx, cfg.addr()) })
	p.Go(func(ctx context.Context) error {
		srv.Reap(ctx, cfg.sessionTimeout)
		return nil
	})
	if cfg.watch && cfg.songsFile != "" {
		p.Go(func(ctx context.Context) error { return cat.Watch(ctx) })
	}
	return p.Wait()
}

package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const minSecretLen = 16

// Config holds every flag of every subcommand.
type Config struct {
	logLevel  string
	logPretty bool
	songsFile string

	// serve
	bind           string
	port           int
	storeKind      string
	dbPath         string
	watch          bool
	dailySalt      string
	secret         string
	tokenTTL       time.Duration
	sessionTimeout time.Duration
	clientOrigin   string
	secure         bool

	// play
	mute    bool
	daily   bool
	song    string
	logFile string
}

func (c *Config) validateServe() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	switch c.storeKind {
	case "memory":
	case "sqlite":
		if c.dbPath == "" {
			return errors.New("--db is required with --store=sqlite")
		}
	default:
		return fmt.Errorf("unknown store %q (want memory or sqlite)", c.storeKind)
	}
	if c.secret != "" && len(c.secret) < minSecretLen {
		return fmt.Errorf("--secret must be at least %d bytes", minSecretLen)
	}
	if c.secure && c.secret == "" {
		return errors.New("--secure requires an explicit --secret")
	}
	if c.tokenTTL <= 0 {
		return errors.New("--token-ttl must be positive")
	}
	return nil
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.bind, c.port)
}

// secretBytes returns the configured token key, or a random one that lives
// only as long as the process.
func (c *Config) secretBytes() []byte {
	if c.secret != "" {
		return []byte(c.secret)
	}
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	log.Warn().Msg("no --secret set; tokens will not survive a restart")
	return b
}

// setupLogging configures the global zerolog logger.
func (c *Config) setupLogging(w io.Writer) error {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.logLevel))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.logLevel, err)
	}
	zerolog.SetGlobalLevel(lvl)
	if c.logPretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// logWriter picks the log destination for the terminal game, which owns
// stdout and stderr while it runs.
func (c *Config) logWriter() (io.Writer, func(), error) {
	if c.logFile == "" {
		return io.Discard, func() {}, nil
	}
	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

// bindEnv makes every flag in fs settable from MWORDLE_<FLAG>.
func bindEnv(v *viper.Viper, fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MWORDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

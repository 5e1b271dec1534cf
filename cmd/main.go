package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"pdf-rag/internal/config"
)

// cli carries the root flags and the configuration loaded from them.
type cli struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()

	app := &cli{}
	rootCmd := &cobra.Command{
		Use:           "rag",
		Short:         "Ask questions about a document using retrieval-augmented generation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init()
		},
	}
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&app.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	rootCmd.AddCommand(app.ingestCmd(), app.chatCmd(), app.searchCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func (c *cli) init() error {
	// a missing .env is fine, variables may come from the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg("Could not load .env file")
	}

	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level := cfg.LogLevel
	if c.logLevel != "" {
		level = c.logLevel
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)

	log.Debug().Interface("config", redacted(cfg)).Msg("Loaded config")
	return nil
}

// redacted returns a copy of cfg safe to log.
func redacted(cfg *config.Config) config.Config {
	out := *cfg
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return "***"
	}
	out.Credentials.GoogleAPIKey = mask(out.Credentials.GoogleAPIKey)
	out.Credentials.OpenAIAPIKey = mask(out.Credentials.OpenAIAPIKey)
	out.Database.Password = mask(out.Database.Password)
	if out.Database.URL != "" {
		out.Database.URL = "***"
	}
	return out
}

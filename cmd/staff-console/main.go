package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/staffconsole/internal/config"
	"github.com/ehr/staffconsole/internal/console"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "staff-console",
		Short: "Clinical staff administration console",
	}

	rootCmd.AddCommand(consoleCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func consoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start an interactive administration session",
		RunE: func(cmd *cobra.Command, args []string) error {
			script, _ := cmd.Flags().GetString("script")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			logger := newLogger(cfg, os.Stderr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			in := cmd.InOrStdin()
			prompt := cfg.Prompt
			if script != "" {
				f, err := os.Open(script)
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()
				in = f
				prompt = ""
			}
			return runConsole(ctx, cfg, prompt, in, cmd.OutOrStdout(), logger)
		},
	}
	cmd.Flags().String("script", "", "Read commands from this file instead of stdin")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}

// newLogger writes JSON to w, or human-readable lines in development.
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

func runConsole(ctx context.Context, cfg *config.Config, prompt string, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	session := console.NewSession(console.Options{
		Out:           out,
		Prompt:        prompt,
		Logger:        logger,
		MaxPhotoBytes: cfg.MaxPhotoBytes,
		PasswordCost:  cfg.PasswordCost,
	})

	logger.Info().Str("env", cfg.Env).Str("version", version).Msg("console started")
	if err := session.Run(ctx, in); err != nil {
		logger.Error().Err(err).Msg("console stopped")
		return err
	}
	logger.Info().Msg("console closed")
	return nil
}

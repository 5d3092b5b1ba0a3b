package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/textswap/cmd/textswap/opts"
	"github.com/walteh/textswap/pkg/config"
	"github.com/walteh/textswap/pkg/feedback"
	"github.com/walteh/textswap/pkg/log"
	"gitlab.com/tozd/go/errors"
)

var (
	// Flags
	configFile string
	debug      bool
)

func loadRootOpts(cmd *cobra.Command, rootOpts *opts.RootOpts) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	store, err := config.Load(ctx, configFile)
	switch {
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		logger.Debug().Str("path", configFile).Msg("no store file, starting without rules")
		store = config.NewStore(nil)
	case err != nil:
		return errors.Errorf("loading store: %w", err)
	}

	consoleLog := *logger
	if !debug {
		consoleLog = consoleLog.Level(zerolog.WarnLevel)
	}

	rootOpts.Store = store
	rootOpts.Console = log.New(os.Stderr, consoleLog)
	rootOpts.Notifier = feedback.NewConsoleNotifier(os.Stderr)
	return nil
}

func addRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "store file path")
	cmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug logging")
}

func setupLogging() zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

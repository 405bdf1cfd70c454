package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/review-sdk/pkg/logging"
)

type rootOptions struct {
	logLevel string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:           "review-import",
		Short:         "Import performance review workbooks and render the import template",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")

	cmd.AddCommand(newImportCmd(&opts))
	cmd.AddCommand(newTemplateCmd())
	return cmd
}

// newLogger logs to stderr so stdout only carries command output.
func (o *rootOptions) newLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(o.logLevel)
	if err != nil {
		return nil, withCode(exitUsage, fmt.Errorf("invalid --log-level: %w", err))
	}
	logger := logging.ConsoleLogger(level)
	logger.SetOutput(os.Stderr)
	return logger, nil
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		code := exitCode(err)
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(code)
	}
}

// Package cli implements the tessera command line tool for planning
// schedules against a YAML catalog without a database.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/tessera-api/pkg/config"
	"github.com/noah-isme/tessera-api/pkg/logger"
)

type rootOptions struct {
	logLevel   string
	loadConfig func() (*config.Config, error)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(config.Load)
}

func newRootCommand(load func() (*config.Config, error)) *cobra.Command {
	opts := &rootOptions{loadConfig: load}

	root := &cobra.Command{
		Use:           "tessera",
		Short:         "Plan weekly course schedules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(newPlanCommand(opts))
	root.AddCommand(newCatalogCommand())
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCommand().Execute() }

func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Log.Level = o.logLevel
	cfg.Log.Format = "console"
	return cfg, nil
}

func (o *rootOptions) logger(cfg *config.Config) *zap.Logger {
	l, err := logger.New(cfg)
	if err != nil {
		return zap.NewNop()
	}
	return l
}

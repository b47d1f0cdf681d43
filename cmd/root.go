package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/insights/config"
	"github.com/seo-optimizer/insights/logging"
)

type rootOptions struct {
	envFiles []string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "insights",
		Short:         "Website analysis and keyword metrics",
		Long:          "Scores websites and estimates keyword metrics, using live measurement services when configured and a deterministic simulator otherwise.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "env files to load (default .env.development, .env)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newKeywordsCmd(opts))
	return root
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func (o *rootOptions) load() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(o.envFiles...)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(cfg.LogLevel, cfg.DevMode)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

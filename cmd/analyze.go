package cmd

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

type queryOptions struct {
	useLive bool
	output  string
}

func (q *queryOptions) bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&q.useLive, "live", false, "use configured live collaborators, falling back to simulation")
	cmd.Flags().StringVarP(&q.output, "output", "o", outputText, "output format: text, json or yaml")
}

func newAnalyzeCmd(root *rootOptions) *cobra.Command {
	q := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Score a website",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(q.output); err != nil {
				return err
			}
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			engine, err := newEngine(cfg, logger, nil, q.useLive)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LiveTimeout())
			defer cancel()
			res, err := engine.AnalyzeURL(ctx, args[0])
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), q.output, res, func(w io.Writer) { formatAnalysis(w, res) })
		},
	}
	q.bind(cmd)
	return cmd
}

func newKeywordsCmd(root *rootOptions) *cobra.Command {
	q := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "keywords <keyword>",
		Short: "Estimate metrics for a keyword and related keywords",
		// multi-word keywords may be passed without quoting
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validOutput(q.output); err != nil {
				return err
			}
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			engine, err := newEngine(cfg, logger, nil, q.useLive)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.LiveTimeout())
			defer cancel()
			report, err := engine.AnalyzeKeyword(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return write(cmd.OutOrStdout(), q.output, report, func(w io.Writer) { formatKeywords(w, report) })
		},
	}
	q.bind(cmd)
	return cmd
}


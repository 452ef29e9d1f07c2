package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show statistics for the stored chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app, out io.Writer) error {
				s := a.chain.Stats()
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintf(tw, "order\t%d\n", s.Order)
				_, _ = fmt.Fprintf(tw, "contexts\t%s\n", humanize.Comma(int64(s.Contexts)))
				_, _ = fmt.Fprintf(tw, "links\t%s\n", humanize.Comma(int64(s.TotalLinks)))
				_, _ = fmt.Fprintf(tw, "frequency\t%s\n", humanize.Comma(int64(s.TotalFrequency)))
				return tw.Flush()
			})
		},
	}
}

func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models in a sqlite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app, out io.Writer) error {
				if a.sqlStore == nil {
					return errors.New("models requires the sqlite backend")
				}
				models, err := a.sqlStore.Models(cmd.Context())
				if err != nil {
					return fmt.Errorf("failed to retrieve models: %w", err)
				}
				tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				_, _ = fmt.Fprintln(tw, "ID\tNAME\tORDER")
				for _, m := range models {
					_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\n", m.Id, m.Name, m.Order)
				}
				return tw.Flush()
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "markov %s (commit %s, built %s)\n", Version, Commit, BuildDate)
			return err
		},
	}
}

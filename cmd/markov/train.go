package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func newTrainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "train [files...]",
		Short: "Train the chain on text files (or stdin) and save it",
		Long: `Train the chain on each file in turn, or on standard input when no
files (or "-") are given. New counts are added to the stored chain.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app, out io.Writer) error {
				if len(args) == 0 {
					args = []string{"-"}
				}
				before := a.chain.Stats().TotalFrequency
				for _, name := range args {
					if err := trainFile(cmd, a, name); err != nil {
						return err
					}
				}
				if err := a.chain.Save(cmd.Context()); err != nil {
					return fmt.Errorf("failed to save chain: %w", err)
				}

				stats := a.chain.Stats()
				a.logger.Info("Training completed",
					slog.Int("files", len(args)),
					slog.Int("windows_added", stats.TotalFrequency-before),
					slog.Int("contexts", stats.Contexts),
				)
				_, err := fmt.Fprintf(out, "trained %d windows, %d contexts total\n", stats.TotalFrequency-before, stats.Contexts)
				return err
			})
		},
	}
}

func trainFile(cmd *cobra.Command, a *app, name string) error {
	if name == "-" {
		return a.text.TrainReader(cmd.InOrStdin())
	}
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open training file: %w", err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	if err = a.text.TrainReader(f); err != nil {
		return fmt.Errorf("failed to train on '%s': %w", name, err)
	}
	a.logger.Debug("Trained on file", slog.String("file", name))
	return nil
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"

	"github.com/CTAG07/markovchain/pkg/markov"
	"github.com/CTAG07/markovchain/pkg/store"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath, format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chain in portable form to stdout or a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := store.CodecByName(format)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app, out io.Writer) error {
				data, err := codec.Marshal(a.chain.ToPortable())
				if err != nil {
					return fmt.Errorf("failed to encode chain: %w", err)
				}
				if outPath == "" {
					_, err = out.Write(data)
					return err
				}
				if err = atomic.WriteFile(outPath, bytes.NewReader(data)); err != nil {
					return fmt.Errorf("failed to write export file: %w", err)
				}
				a.logger.Info("Chain exported",
					slog.String("file", outPath),
					slog.String("format", codec.Name()),
					slog.Int("contexts", a.chain.Len()),
				)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&format, "format", "json", "export format: json, msgpack")
	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Merge a portable chain file into the stored chain",
		Long: `Merge a portable chain file into the stored chain. Each context in the
file replaces the stored context of the same key; other contexts are kept.
Files whose type tag is not "markov-chain-base" are ignored.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			codec, err := store.CodecByName(format)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read import file: %w", err)
			}
			p, err := codec.Unmarshal(data)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app, out io.Writer) error {
				if p.Type != markov.PortableType {
					a.logger.Warn("Import file is not a portable chain, ignoring",
						slog.String("file", args[0]),
						slog.String("type", p.Type),
					)
					return nil
				}
				a.chain.FromPortable(p)
				if err := a.chain.Save(cmd.Context()); err != nil {
					return fmt.Errorf("failed to save chain: %w", err)
				}
				_, err := fmt.Fprintf(out, "imported %d contexts\n", len(p.Transitions))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "import format: json, msgpack")
	return cmd
}

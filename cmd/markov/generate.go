package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "generate [seed...]",
		Short: "Continue the seed text for a number of steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app, out io.Writer) error {
				text, err := a.text.GenerateSteps(strings.Join(args, " "), steps)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, text)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of tokens to generate")
	return cmd
}

func newSentencesCmd(opts *rootOptions) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "sentences [seed...]",
		Short: "Continue the seed text until it holds a number of sentences",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app, out io.Writer) error {
				text, err := a.text.GenerateSentences(strings.Join(args, " "), count)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(out, text)
				return err
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of sentences the output should hold")
	return cmd
}

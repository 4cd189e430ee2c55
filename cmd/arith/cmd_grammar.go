package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/arith/grammar"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print the expression grammar in EBNF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := grammar.Load(); err != nil {
				return err
			}
			_, err := cmd.OutOrStdout().Write(grammar.Source())
			return err
		},
	}

	cmd.AddCommand(newGrammarCheckCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:           "check <file>",
		Short:         "Parse and verify an EBNF grammar file",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]

			f, err := os.Open(filename)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			if _, err := grammar.Check(filename, f, start); err != nil {
				for _, e := range grammar.Errors(err) {
					fmt.Fprintln(cmd.OutOrStdout(), e)
				}
				return fmt.Errorf("%s: invalid grammar", filename)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", grammar.Start, "start production for verification (empty only checks syntax)")

	return cmd
}

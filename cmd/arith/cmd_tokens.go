package main

import (
	"fmt"
	"strings"

	"github.com/dhamidi/arith/grammar"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <expression...>",
		Short: "Split an expression into grammar tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")
			tokens, err := grammar.NewLexer(g, []byte(input), "").Tokenize()
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, tok := range tokens {
				fmt.Fprintln(out, tok)
			}
			return nil
		},
	}
}

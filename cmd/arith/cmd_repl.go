package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/arith/expr"
	"github.com/dhamidi/arith/format"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Read expressions line by line and print their values.

An expression that ends early, such as "2 +" or "(1 + 2", continues on
the next line. An empty line exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runRepl(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	enc := format.NewTextEncoder(out)
	prompt := color.New(color.FgCyan)
	pending := ""

	for {
		if pending != "" {
			prompt.Fprint(out, "-> ")
		} else {
			prompt.Fprint(out, ">> ")
		}

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read input: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" && pending == "" {
			fmt.Fprintln(out)
			return nil
		}

		input := line
		if pending != "" {
			input = pending + "\n" + line
		}

		result := format.Evaluate(input)
		if result.Err != nil && expr.IsIncomplete(result.Err) && err == nil && line != "" {
			pending = input
			continue
		}
		pending = ""
		if encErr := enc.Encode(result); encErr != nil {
			return fmt.Errorf("write output: %w", encErr)
		}
		if err == io.EOF {
			return nil
		}
	}
}

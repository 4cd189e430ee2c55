package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dhamidi/arith/batch"
	"github.com/dhamidi/arith/format"
	"github.com/spf13/cobra"
)

// errEvalFailed reports evaluation errors the encoder has already written.
var errEvalFailed = errors.New("evaluation failed")

type evalOptions struct {
	output  string
	file    string
	workers int
	timeout time.Duration
	echo    bool
}

func newEvalCmd() *cobra.Command {
	var opts evalOptions

	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate an expression, or every line of a file",
		Long: `Evaluate an integer expression and print its value.

The arguments are joined with spaces and evaluated as one expression.
With -f, every non-blank line of the file is evaluated on its own;
use -f - to read standard input.

Examples:
  arith eval '2 + 3 * 4'          # 14
  arith eval -f sums.arith -e     # one "input = value" line per expression
  arith eval -o json '(1 + 2'     # error as JSON`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runEval(cmd, args, opts)
			if errors.Is(err, errEvalFailed) {
				cmd.SilenceErrors = true
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format (text, json)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "evaluate each line of this file (- for stdin)")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent evaluators for -f (0 = number of CPUs)")
	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", 0, "give up on -f after this long (0 = no limit)")
	cmd.Flags().BoolVarP(&opts.echo, "echo", "e", false, "prefix each text result with its input")

	return cmd
}

func runEval(cmd *cobra.Command, args []string, opts evalOptions) error {
	enc, err := newEncoder(opts.output, cmd.OutOrStdout(), opts.echo)
	if err != nil {
		return err
	}
	if opts.file != "" {
		if len(args) > 0 {
			return fmt.Errorf("-f cannot be combined with expression arguments")
		}
		return runEvalFile(cmd.Context(), cmd.InOrStdin(), enc, opts.file, opts.workers, opts.timeout)
	}
	if len(args) == 0 {
		return fmt.Errorf("no expression given (use -f to read a file)")
	}

	result := format.Evaluate(strings.Join(args, " "))
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	if result.Err != nil {
		return errEvalFailed
	}
	return nil
}

func newEncoder(outputFormat string, w io.Writer, echo bool) (format.Encoder, error) {
	switch outputFormat {
	case "text":
		enc := format.NewTextEncoder(w)
		if echo {
			enc.WithInput()
		}
		return enc, nil
	case "json":
		return format.NewJSONEncoder(w), nil
	default:
		return nil, fmt.Errorf("unknown format: %s", outputFormat)
	}
}

func runEvalFile(ctx context.Context, stdin io.Reader, enc format.Encoder, filename string, workers int, timeout time.Duration) error {
	var rd io.Reader
	name := filename
	if filename == "-" {
		rd = stdin
		name = "<stdin>"
	} else {
		f, err := os.Open(filename)
		if err != nil {
			return fmt.Errorf("open %s: %w", filename, err)
		}
		defer f.Close()
		rd = f
	}

	items, err := batch.Lines(rd)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runner := batch.New(batch.WithWorkers(workers), batch.WithFile(name))
	results, summary, runErr := runner.Run(ctx, items)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	}
	if runErr != nil {
		return fmt.Errorf("evaluate %s: %w", name, runErr)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d expressions failed: %w", summary.Failed, summary.Total, errEvalFailed)
	}
	return nil
}

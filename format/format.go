package format

import (
	"encoding"
	"errors"

	"github.com/dhamidi/arith/expr"
)

// Result is the outcome of evaluating one input.
type Result struct {
	Input string
	Value int64
	Err   error
}

// Evaluate runs a fresh Evaluator over input and captures the outcome.
func Evaluate(input string, opts ...expr.Option) Result {
	e := expr.New(input, opts...)
	v, err := e.Evaluate()
	return Result{Input: e.Input(), Value: v, Err: err}
}

type Encoder interface {
	encoding.TextMarshaler
	Encode(r Result) error
}

// ErrorKind names the class of an evaluation error: "syntax",
// "division_by_zero", "overflow", or "error" for anything else.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, expr.ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, expr.ErrOverflow):
		return "overflow"
	}
	var se *expr.SyntaxError
	if errors.As(err, &se) {
		return "syntax"
	}
	return "error"
}

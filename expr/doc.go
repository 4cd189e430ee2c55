// Package expr evaluates integer arithmetic expressions in a single pass.
//
// # Grammar
//
//	expr   = term (('+' | '-') term)*
//	term   = factor (('*' | '/') factor)*
//	factor = NUMBER | '(' expr ')'
//	NUMBER = digit+
//
// Whitespace may appear between any two tokens. Digits are ASCII only.
//
// # Evaluation
//
// Each grammar rule is a method that reads from a shared cursor and returns
// the int64 value it computed; no tokens or tree are built. The cursor only
// moves forward. Operators of the same precedence associate to the left, so
// "8 / 4 / 2" is 1. Division truncates toward zero, so "(0-7) / 2" is -3.
//
// # Errors
//
// The first error ends the evaluation:
//
//	*SyntaxError          ErrExpectedNumber, ErrMissingParen, ErrTrailingInput
//	*DivisionByZeroError  ErrDivisionByZero
//	*RangeError           ErrOverflow (literal or intermediate result)
//
// All of them carry a Position and can be matched with errors.Is against the
// sentinels above. IsIncomplete reports whether more input could still
// complete the expression.
//
// # Example Usage
//
//	v, err := expr.Evaluate("2 + 3 * 4") // 14
//
//	e := expr.New(src, expr.WithFile("sums.arith"))
//	v, err = e.Evaluate()
//
// # Thread Safety
//
// An Evaluator is not safe for concurrent use. Independent evaluators share
// nothing and may run in parallel. Nesting depth is limited only by the
// goroutine stack.
package expr

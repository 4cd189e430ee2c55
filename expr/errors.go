package expr

import (
	"errors"
	"fmt"
)

var (
	ErrExpectedNumber = errors.New("expected number")
	ErrMissingParen   = errors.New("expected ')'")
	ErrTrailingInput  = errors.New("unexpected trailing characters")
	ErrDivisionByZero = errors.New("division by zero")
	ErrOverflow       = errors.New("integer overflow")
)

// SyntaxError reports input that does not match the grammar.
// Err is one of ErrExpectedNumber, ErrMissingParen or ErrTrailingInput.
type SyntaxError struct {
	Err  error
	Pos  Position
	Text string // unconsumed input, set for ErrTrailingInput

	atEOF bool
}

func (e *SyntaxError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%s: %v: %q", e.Pos, e.Err, e.Text)
	}
	return fmt.Sprintf("%s: %v", e.Pos, e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// DivisionByZeroError is raised when the right operand of '/' is zero.
// Pos is the position of the operator.
type DivisionByZeroError struct {
	Pos Position
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: %v", e.Pos, ErrDivisionByZero)
}

func (e *DivisionByZeroError) Unwrap() error {
	return ErrDivisionByZero
}

// RangeError is raised when a literal or an intermediate result does not
// fit in an int64.
type RangeError struct {
	Pos  Position
	Text string
}

func (e *RangeError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("%s: %v: %s", e.Pos, ErrOverflow, e.Text)
	}
	return fmt.Sprintf("%s: %v", e.Pos, ErrOverflow)
}

func (e *RangeError) Unwrap() error {
	return ErrOverflow
}

// IsIncomplete reports whether err was raised at the end of the input by a
// rule that still needed more of it, as in "2 +" or "(1 + 2". Appending
// text may turn such an input into a valid expression.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	if !errors.As(err, &se) {
		return false
	}
	return se.atEOF && (se.Err == ErrExpectedNumber || se.Err == ErrMissingParen)
}

// ErrorPosition extracts the position carried by an evaluation error.
func ErrorPosition(err error) (Position, bool) {
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Pos, true
	}
	var de *DivisionByZeroError
	if errors.As(err, &de) {
		return de.Pos, true
	}
	var re *RangeError
	if errors.As(err, &re) {
		return re.Pos, true
	}
	return Position{}, false
}

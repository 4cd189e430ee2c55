package expr

import (
	"errors"
	"strconv"
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithFile sets the file name reported in error positions.
func WithFile(path string) Option {
	return func(e *Evaluator) {
		e.s.file = path
	}
}

// WithStartLine sets the line number of the first input line (default 1).
func WithStartLine(line int) Option {
	return func(e *Evaluator) {
		e.s.startLine = line
	}
}

// Evaluator holds the state of one evaluation session: the input and the
// cursor into it. An Evaluator is not safe for concurrent use; create one
// per goroutine.
type Evaluator struct {
	s scanner
}

// New creates an evaluation session over input.
func New(input string, opts ...Option) *Evaluator {
	e := &Evaluator{s: scanner{input: input, startLine: 1}}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate parses and computes the whole input. Each call starts over from
// the beginning of the input.
func Evaluate(input string) (int64, error) {
	return New(input).Evaluate()
}

// Input returns the text the session evaluates.
func (e *Evaluator) Input() string {
	return e.s.input
}

// Evaluate computes the value of the input. It fails with a *SyntaxError,
// *DivisionByZeroError or *RangeError; the first error stops evaluation.
func (e *Evaluator) Evaluate() (int64, error) {
	e.s.pos = 0
	value, err := e.parseExpression()
	if err != nil {
		return 0, err
	}
	e.s.skipWhitespace()
	if !e.s.atEnd() {
		return 0, &SyntaxError{
			Err:  ErrTrailingInput,
			Pos:  e.s.Position(),
			Text: e.s.input[e.s.pos:],
		}
	}
	return value, nil
}

func (e *Evaluator) syntaxError(err error) *SyntaxError {
	return &SyntaxError{Err: err, Pos: e.s.Position(), atEOF: e.s.atEnd()}
}

func (e *Evaluator) rangeError(offset int, text string) *RangeError {
	return &RangeError{Pos: e.s.positionAt(offset), Text: text}
}

// expr = term (('+' | '-') term)*
func (e *Evaluator) parseExpression() (int64, error) {
	value, err := e.parseTerm()
	if err != nil {
		return 0, err
	}
	for {
		op := e.s.peek()
		if op != '+' && op != '-' {
			return value, nil
		}
		opPos := e.s.pos
		e.s.match(op)
		right, err := e.parseTerm()
		if err != nil {
			return 0, err
		}
		var ok bool
		if op == '+' {
			value, ok = addInt64(value, right)
		} else {
			value, ok = subInt64(value, right)
		}
		if !ok {
			return 0, e.rangeError(opPos, "")
		}
	}
}

// term = factor (('*' | '/') factor)*
func (e *Evaluator) parseTerm() (int64, error) {
	value, err := e.parseFactor()
	if err != nil {
		return 0, err
	}
	for {
		op := e.s.peek()
		if op != '*' && op != '/' {
			return value, nil
		}
		opPos := e.s.pos
		e.s.match(op)
		right, err := e.parseFactor()
		if err != nil {
			return 0, err
		}
		var ok bool
		if op == '*' {
			value, ok = mulInt64(value, right)
		} else {
			if right == 0 {
				return 0, &DivisionByZeroError{Pos: e.s.positionAt(opPos)}
			}
			value, ok = divInt64(value, right)
		}
		if !ok {
			return 0, e.rangeError(opPos, "")
		}
	}
}

// factor = NUMBER | '(' expr ')'
//
// Once '(' is consumed the parenthesis is committed: a missing ')' is an
// error at the current cursor, nothing is rewound.
func (e *Evaluator) parseFactor() (int64, error) {
	if e.s.peek() != '(' {
		return e.parseNumber()
	}
	e.s.match('(')
	value, err := e.parseExpression()
	if err != nil {
		return 0, err
	}
	if !e.s.match(')') {
		return 0, e.syntaxError(ErrMissingParen)
	}
	return value, nil
}

// NUMBER = digit+
func (e *Evaluator) parseNumber() (int64, error) {
	e.s.skipWhitespace()
	start := e.s.pos
	for e.s.pos < len(e.s.input) && isDigit(e.s.input[e.s.pos]) {
		e.s.pos++
	}
	if start == e.s.pos {
		return 0, e.syntaxError(ErrExpectedNumber)
	}
	digits := e.s.input[start:e.s.pos]
	value, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, e.rangeError(start, digits)
		}
		return 0, err
	}
	return value, nil
}

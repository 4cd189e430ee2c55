package expr

import (
	"unicode"
	"unicode/utf8"
)

// eof is returned by peek once the cursor has reached the end of the input.
const eof rune = -1

type scanner struct {
	input     string
	file      string
	startLine int
	pos       int
}

func (s *scanner) Position() Position {
	return s.positionAt(s.pos)
}

func (s *scanner) positionAt(offset int) Position {
	pos := positionAt(s.input, offset)
	pos.File = s.file
	pos.Line += s.startLine - 1
	return pos
}

func (s *scanner) atEnd() bool {
	return s.pos >= len(s.input)
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) {
		r, size := utf8.DecodeRuneInString(s.input[s.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		s.pos += size
	}
}

// peek skips whitespace, so the cursor may move even though nothing is consumed.
func (s *scanner) peek() rune {
	s.skipWhitespace()
	if s.pos >= len(s.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(s.input[s.pos:])
	return r
}

// match consumes expected if it is the next significant rune.
// On failure only whitespace has been consumed.
func (s *scanner) match(expected rune) bool {
	s.skipWhitespace()
	if s.pos >= len(s.input) {
		return false
	}
	r, size := utf8.DecodeRuneInString(s.input[s.pos:])
	if r != expected {
		return false
	}
	s.pos += size
	return true
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

package grammar

import (
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/arith/expr"
	"golang.org/x/exp/ebnf"
)

const (
	KindEOF   = "EOF"
	KindError = "ERROR"
)

// Token represents a lexical token with its position.
type Token struct {
	Kind    string
	Literal string
	Pos     expr.Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Kind, t.Literal)
}

const noMatch = -1

type memoKey struct {
	name   string
	offset int
}

// Lexer splits input into the tokens named by the grammar's lexical
// productions. Whitespace between tokens is skipped.
type Lexer struct {
	grammar  ebnf.Grammar
	kinds    []string
	input    []byte
	filename string
	pos      int
	line     int
	column   int
	memo     map[memoKey]int  // production at offset -> match length, noMatch if none
	visiting map[memoKey]bool // cycle detection
}

func NewLexer(g ebnf.Grammar, input []byte, filename string) *Lexer {
	return &Lexer{
		grammar:  g,
		kinds:    TokenKinds(g),
		input:    input,
		filename: filename,
		line:     1,
		column:   1,
		memo:     make(map[memoKey]int),
		visiting: make(map[memoKey]bool),
	}
}

func (l *Lexer) Position() expr.Position {
	return expr.Position{
		File:   l.filename,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) advance() {
	if l.pos >= len(l.input) {
		return
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRune(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		for i := 0; i < size; i++ {
			l.advance()
		}
	}
}

// NextToken returns the longest match among the token productions.
// At the end of input it returns an EOF token and io.EOF. A rune no
// production matches comes back as an ERROR token.
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()
	if l.pos >= len(l.input) {
		return Token{Kind: KindEOF, Pos: l.Position()}, io.EOF
	}

	startPos := l.Position()
	startOffset := l.pos

	// offsets shift between tokens, so memoized lengths do not carry over
	l.memo = make(map[memoKey]int)

	var bestKind string
	var bestLen int
	for _, name := range l.kinds {
		prod := l.grammar[name]
		if prod == nil || prod.Expr == nil {
			continue
		}
		l.visiting = make(map[memoKey]bool)
		n, ok := l.tryMatch(prod.Expr, startOffset)
		if ok && n > bestLen {
			bestLen = n
			bestKind = name
		}
	}

	if bestLen == 0 {
		_, size := utf8.DecodeRune(l.input[l.pos:])
		for i := 0; i < size; i++ {
			l.advance()
		}
		return Token{
			Kind:    KindError,
			Literal: string(l.input[startOffset:l.pos]),
			Pos:     startPos,
		}, nil
	}

	for i := 0; i < bestLen; i++ {
		l.advance()
	}
	return Token{
		Kind:    bestKind,
		Literal: string(l.input[startOffset : startOffset+bestLen]),
		Pos:     startPos,
	}, nil
}

// tryMatch reports the length of the match of e at offset. A match may be
// empty, as for an option or repetition whose body does not match.
func (l *Lexer) tryMatch(e ebnf.Expression, offset int) (int, bool) {
	switch e := e.(type) {
	case *ebnf.Token:
		return l.tryMatchToken(e.String, offset)

	case *ebnf.Range:
		return l.tryMatchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		total := 0
		for _, item := range e {
			n, ok := l.tryMatch(item, offset+total)
			if !ok {
				return 0, false
			}
			total += n
		}
		return total, true

	case ebnf.Alternative:
		best, matched := 0, false
		for _, alt := range e {
			if n, ok := l.tryMatch(alt, offset); ok && (!matched || n > best) {
				best, matched = n, true
			}
		}
		return best, matched

	case *ebnf.Repetition:
		total := 0
		for {
			n, ok := l.tryMatch(e.Body, offset+total)
			if !ok || n == 0 {
				return total, true
			}
			total += n
		}

	case *ebnf.Option:
		if n, ok := l.tryMatch(e.Body, offset); ok {
			return n, true
		}
		return 0, true

	case *ebnf.Group:
		return l.tryMatch(e.Body, offset)

	case *ebnf.Name:
		return l.tryMatchName(e.String, offset)

	default:
		return 0, false
	}
}

func (l *Lexer) tryMatchName(name string, offset int) (int, bool) {
	key := memoKey{name: name, offset: offset}
	if n, ok := l.memo[key]; ok {
		return n, n >= 0
	}
	if l.visiting[key] {
		return 0, false
	}

	prod, ok := l.grammar[name]
	if !ok || prod.Expr == nil {
		l.memo[key] = noMatch
		return 0, false
	}

	l.visiting[key] = true
	n, ok := l.tryMatch(prod.Expr, offset)
	delete(l.visiting, key)

	if !ok {
		l.memo[key] = noMatch
		return 0, false
	}
	l.memo[key] = n
	return n, true
}

func (l *Lexer) tryMatchToken(s string, offset int) (int, bool) {
	if offset+len(s) > len(l.input) {
		return 0, false
	}
	if string(l.input[offset:offset+len(s)]) == s {
		return len(s), true
	}
	return 0, false
}

// tryMatchRange matches a single-byte range such as "0" … "9".
func (l *Lexer) tryMatchRange(begin, end string, offset int) (int, bool) {
	if offset >= len(l.input) || len(begin) != 1 || len(end) != 1 {
		return 0, false
	}
	ch := l.input[offset]
	if ch >= begin[0] && ch <= end[0] {
		return 1, true
	}
	return 0, false
}

// Tokenize reads all tokens, including the final EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		tok, err := l.NextToken()
		tokens = append(tokens, tok)
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
	}
}

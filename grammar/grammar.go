// Package grammar holds the expression grammar in EBNF form and a lexer
// driven by it.
package grammar

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Start is the name of the start production.
const Start = "Expr"

//go:embed expr.ebnf
var source []byte

// Source returns the grammar text.
func Source() []byte {
	return bytes.Clone(source)
}

// Load parses the embedded grammar and verifies it from Start.
func Load() (ebnf.Grammar, error) {
	return Check("expr.ebnf", bytes.NewReader(source), Start)
}

// Check parses an EBNF grammar from r. With a non-empty start it also
// verifies that every production is defined and reachable from start.
func Check(filename string, r io.Reader, start string) (ebnf.Grammar, error) {
	g, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	if start == "" {
		return g, nil
	}
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}
	return g, nil
}

// Errors splits an error returned by Check into the individual errors the
// ebnf package collected.
func Errors(err error) []error {
	for {
		v := reflect.ValueOf(err)
		if v.Kind() == reflect.Slice {
			errs := make([]error, 0, v.Len())
			for i := 0; i < v.Len(); i++ {
				if e, ok := v.Index(i).Interface().(error); ok {
					errs = append(errs, e)
				}
			}
			return errs
		}
		inner := errors.Unwrap(err)
		if inner == nil {
			return []error{err}
		}
		err = inner
	}
}

// TokenKinds returns the lexical productions that non-terminal productions
// refer to directly, sorted by name. Helpers such as digit are not listed.
func TokenKinds(g ebnf.Grammar) []string {
	seen := make(map[string]bool)
	for name, prod := range g {
		if !isNonTerminal(name) || prod.Expr == nil {
			continue
		}
		collectLexical(prod.Expr, seen)
	}
	kinds := make([]string, 0, len(seen))
	for name := range seen {
		kinds = append(kinds, name)
	}
	sort.Strings(kinds)
	return kinds
}

func collectLexical(expr ebnf.Expression, seen map[string]bool) {
	switch e := expr.(type) {
	case *ebnf.Name:
		if !isNonTerminal(e.String) {
			seen[e.String] = true
		}
	case ebnf.Sequence:
		for _, item := range e {
			collectLexical(item, seen)
		}
	case ebnf.Alternative:
		for _, alt := range e {
			collectLexical(alt, seen)
		}
	case *ebnf.Group:
		collectLexical(e.Body, seen)
	case *ebnf.Option:
		collectLexical(e.Body, seen)
	case *ebnf.Repetition:
		collectLexical(e.Body, seen)
	}
}

func isNonTerminal(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

package lsp

import (
	"strings"
	"sync"
	"unicode/utf16"

	"github.com/dhamidi/arith/expr"
	"github.com/dhamidi/arith/format"
)

// LineResult is the evaluation of one non-blank line of a document.
// Line is 0-based, as in the protocol.
type LineResult struct {
	Line   int
	Text   string
	Result format.Result
}

// Analyze evaluates every non-blank line of text as its own expression.
func Analyze(text string) []LineResult {
	var results []LineResult
	for i, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		results = append(results, LineResult{
			Line:   i,
			Text:   line,
			Result: format.Evaluate(line, expr.WithStartLine(i+1)),
		})
	}
	return results
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// utf16Len counts the UTF-16 code units of s; protocol columns are measured
// in them.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}

// Store keeps the latest text of every open document.
type Store struct {
	mu   sync.RWMutex
	docs map[string]string
}

func NewStore() *Store {
	return &Store{docs: make(map[string]string)}
}

func (s *Store) Update(uri, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[uri] = text
}

func (s *Store) Get(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Store) Remove(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

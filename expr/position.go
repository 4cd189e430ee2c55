package expr

import "fmt"

// Position is a location in the evaluated input.
// Offset is the cursor index in bytes; Line and Column are 1-based,
// with Column counted in bytes.
type Position struct {
	File   string
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

func positionAt(input string, offset int) Position {
	if offset > len(input) {
		offset = len(input)
	}
	pos := Position{Offset: offset, Line: 1, Column: 1}
	for i := 0; i < offset; i++ {
		if input[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

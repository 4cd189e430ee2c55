package format

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
)

// TextEncoder writes one line per result: the value, or "error: " followed
// by the error. Errors are red when the terminal supports color.
type TextEncoder struct {
	w         io.Writer
	result    Result
	echoInput bool
	errColor  *color.Color
}

func NewTextEncoder(w io.Writer) *TextEncoder {
	return &TextEncoder{w: w, errColor: color.New(color.FgRed)}
}

// WithInput prefixes each line with the evaluated input.
func (e *TextEncoder) WithInput() *TextEncoder {
	e.echoInput = true
	return e
}

func (e *TextEncoder) Encode(r Result) error {
	e.result = r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.w, string(text))
	return err
}

func (e *TextEncoder) MarshalText() ([]byte, error) {
	r := e.result
	var prefix string
	if e.echoInput {
		prefix = r.Input + " = "
	}
	if r.Err != nil {
		return []byte(prefix + e.errColor.Sprint("error: "+r.Err.Error())), nil
	}
	return []byte(prefix + strconv.FormatInt(r.Value, 10)), nil
}

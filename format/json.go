package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/arith/expr"
)

type JSONEncoder struct {
	w      io.Writer
	result Result
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(r Result) error {
	e.result = r
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	return json.Marshal(BuildJSON(e.result))
}

type JSONResult struct {
	Input string     `json:"input"`
	Value *int64     `json:"value,omitempty"`
	Error *JSONError `json:"error,omitempty"`
}

type JSONError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Offset  int    `json:"offset"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// BuildJSON converts r into the shape served by the JSON encoder and the
// web UI.
func BuildJSON(r Result) JSONResult {
	data := JSONResult{Input: r.Input}
	if r.Err == nil {
		v := r.Value
		data.Value = &v
		return data
	}
	data.Error = &JSONError{
		Kind:    ErrorKind(r.Err),
		Message: r.Err.Error(),
	}
	if pos, ok := expr.ErrorPosition(r.Err); ok {
		data.Error.Offset = pos.Offset
		data.Error.Line = pos.Line
		data.Error.Column = pos.Column
	}
	return data
}

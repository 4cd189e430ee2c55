package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		input string
		kind  string
	}{
		{"1 + 1", ""},
		{"1 +", "syntax"},
		{"(1", "syntax"},
		{"1 1", "syntax"},
		{"1 / 0", "division_by_zero"},
		{"99999999999999999999", "overflow"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r := Evaluate(tt.input)
			if got := ErrorKind(r.Err); got != tt.kind {
				t.Errorf("ErrorKind = %q, want %q", got, tt.kind)
			}
		})
	}

	if got := ErrorKind(errors.New("boom")); got != "error" {
		t.Errorf("ErrorKind(other) = %q, want %q", got, "error")
	}
}

func TestTextEncoder(t *testing.T) {
	tests := []struct {
		input string
		echo  bool
		want  string
	}{
		{"2 + 3 * 4", false, "14\n"},
		{"2 + 3 * 4", true, "2 + 3 * 4 = 14\n"},
		{"5 / 0", false, "error: 1:3: division by zero\n"},
		{"3 + 4 abc", true, "3 + 4 abc = error: 1:7: unexpected trailing characters: \"abc\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var buf bytes.Buffer
			enc := NewTextEncoder(&buf)
			if tt.echo {
				enc.WithInput()
			}
			if err := enc.Encode(Evaluate(tt.input)); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestJSONEncoder(t *testing.T) {
	var buf bytes.Buffer
	enc := NewJSONEncoder(&buf)
	if err := enc.Encode(Evaluate("(2 + 3) * 4")); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got, want := buf.String(), `{"input":"(2 + 3) * 4","value":20}`+"\n"; got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	buf.Reset()
	if err := enc.Encode(Evaluate("3 + 4 abc")); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var got JSONResult
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Value != nil {
		t.Errorf("Value = %d, want none", *got.Value)
	}
	if got.Error == nil {
		t.Fatal("Error missing")
	}
	if got.Error.Kind != "syntax" || got.Error.Offset != 6 || got.Error.Column != 7 {
		t.Errorf("Error = %+v", got.Error)
	}
}

func TestJSONZeroValue(t *testing.T) {
	data := BuildJSON(Evaluate("1 - 1"))
	if data.Value == nil || *data.Value != 0 {
		t.Errorf("Value = %v, want 0", data.Value)
	}
}

func TestEvaluateResult(t *testing.T) {
	r := Evaluate(" 6 * 7 ")
	if r.Input != " 6 * 7 " || r.Value != 42 || r.Err != nil {
		t.Errorf("Evaluate = %+v", r)
	}
}

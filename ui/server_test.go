package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dhamidi/arith/format"
	"github.com/gorilla/websocket"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := NewServer()
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return s
}

func TestIndex(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `<form method="post" action="/eval">`) {
		t.Errorf("index page has no form:\n%s", rec.Body.String())
	}
}

func TestEvalForm(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		input string
		want  string
	}{
		{"(2 + 3) * 4", "= 20"},
		{"5 / 0", "division by zero"},
		{"3 + 4 abc", "      ^"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			form := url.Values{"input": {tt.input}}
			req := httptest.NewRequest("POST", "/eval", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body does not contain %q:\n%s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestCaret(t *testing.T) {
	tests := []struct {
		input  string
		offset int
		want   string
	}{
		{"3 + 4 abc", 6, "      ^"},
		{"\u00a01 x", 4, "   ^"},
		{"1 +", 3, "   ^"},
		{"", 5, "^"},
	}
	for _, tt := range tests {
		if got := caret(tt.input, tt.offset); got != tt.want {
			t.Errorf("caret(%q, %d) = %q, want %q", tt.input, tt.offset, got, tt.want)
		}
	}
}

func TestEvalFormMultiByteCaret(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"input": {"\u00a01 x"}}
	req := httptest.NewRequest("POST", "/eval", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if !strings.Contains(rec.Body.String(), "\n   ^\n") {
		t.Errorf("body has no caret under x:\n%s", rec.Body.String())
	}
}

func TestAPIEval(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		body   string
		status int
		value  int64
		kind   string
	}{
		{`{"input": "2 + 3 * 4"}`, http.StatusOK, 14, ""},
		{`{"input": "20 - 5 - 3"}`, http.StatusOK, 12, ""},
		{`{"input": "(1 + 2"}`, http.StatusUnprocessableEntity, 0, "syntax"},
		{`{"input": "5 / 0"}`, http.StatusUnprocessableEntity, 0, "division_by_zero"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest("POST", "/api/eval", strings.NewReader(tt.body)))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			var got format.JSONResult
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if tt.kind == "" {
				if got.Value == nil || *got.Value != tt.value {
					t.Errorf("value = %v, want %d", got.Value, tt.value)
				}
				return
			}
			if got.Error == nil || got.Error.Kind != tt.kind {
				t.Errorf("error = %+v, want kind %s", got.Error, tt.kind)
			}
		})
	}
}

func TestAPIEvalBadJSON(t *testing.T) {
	s := newTestServer(t)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest("POST", "/api/eval", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestWebSocket(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	for _, tt := range []struct {
		input string
		value int64
		err   bool
	}{
		{"1 + 2", 3, false},
		{"8 / 4 / 2", 1, false},
		{"2 +", 0, true},
	} {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.input)); err != nil {
			t.Fatalf("WriteMessage: %v", err)
		}
		var got format.JSONResult
		if err := conn.ReadJSON(&got); err != nil {
			t.Fatalf("ReadJSON: %v", err)
		}
		if got.Input != tt.input {
			t.Errorf("input = %q, want %q", got.Input, tt.input)
		}
		if tt.err {
			if got.Error == nil {
				t.Errorf("%q: no error", tt.input)
			}
			continue
		}
		if got.Value == nil || *got.Value != tt.value {
			t.Errorf("%q: value = %v, want %d", tt.input, got.Value, tt.value)
		}
	}
}

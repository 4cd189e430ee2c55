// Package ui serves a small web front end for the evaluator.
package ui

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/dhamidi/arith/format"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

//go:embed templates
var embeddedFS embed.FS

var log = commonlog.GetLogger("arith.ui")

const maxInputSize = 64 * 1024

type Server struct {
	templates *template.Template
	mux       *http.ServeMux
	upgrader  websocket.Upgrader
}

type indexData struct {
	Input     string
	Evaluated bool
	Result    format.JSONResult
}

type evalRequest struct {
	Input string `json:"input"`
}

func NewServer() (*Server, error) {
	funcMap := template.FuncMap{
		"caret": caret,
		"deref": func(v *int64) int64 {
			if v == nil {
				return 0
			}
			return *v
		},
	}

	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		templates: templates,
		mux:       http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
	}

	s.mux.HandleFunc("POST /eval", s.handleEval)
	s.mux.HandleFunc("POST /api/eval", s.handleAPIEval)
	s.mux.HandleFunc("GET /ws", s.handleWebSocket)
	s.mux.HandleFunc("GET /{$}", s.handleIndex)

	return s, nil
}

// caret points at the byte offset of input, indented by the runes before it.
func caret(input string, offset int) string {
	offset = min(max(offset, 0), len(input))
	return strings.Repeat(" ", utf8.RuneCountInString(input[:offset])) + "^"
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Errorf("render %s: %s", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, "index.html", indexData{})
}

func (s *Server) handleEval(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxInputSize)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}
	input := r.PostFormValue("input")
	s.render(w, "index.html", indexData{
		Input:     input,
		Evaluated: true,
		Result:    format.BuildJSON(format.Evaluate(input)),
	})
}

func (s *Server) handleAPIEval(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInputSize))
	if err != nil {
		http.Error(w, "read body: "+err.Error(), http.StatusBadRequest)
		return
	}
	var req evalRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	result := format.BuildJSON(format.Evaluate(req.Input))
	w.Header().Set("Content-Type", "application/json")
	if result.Error != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}
	json.NewEncoder(w).Encode(result)
}

// handleWebSocket evaluates every text message on the connection and
// answers with its JSON result.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warningf("websocket upgrade from %s: %s", r.RemoteAddr, err)
		return
	}
	defer conn.Close()

	session := uuid.NewString()
	log.Infof("session %s opened from %s", session, r.RemoteAddr)
	conn.SetReadLimit(maxInputSize)

	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warningf("session %s: %s", session, err)
			}
			break
		}
		if messageType != websocket.TextMessage {
			continue
		}
		result := format.BuildJSON(format.Evaluate(string(message)))
		if err := conn.WriteJSON(result); err != nil {
			log.Warningf("session %s: write: %s", session, err)
			break
		}
	}
	log.Infof("session %s closed", session)
}

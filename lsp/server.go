// Package lsp serves diagnostics and hovers for expression scratch files
// over the Language Server Protocol. Every non-blank line of a document is
// evaluated on its own.
package lsp

import (
	"strconv"

	"github.com/dhamidi/arith/expr"
	"github.com/dhamidi/arith/format"
	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "arith"

var log = commonlog.GetLogger("arith.lsp")

type Server struct {
	store   *Store
	handler protocol.Handler
	server  *server.Server
	version string
}

func NewServer(version string) *Server {
	s := &Server{
		store:   NewStore(),
		version: version,
	}

	s.handler = protocol.Handler{
		Initialize:            s.initialize,
		Initialized:           s.initialized,
		Shutdown:              s.shutdown,
		SetTrace:              s.setTrace,
		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,
		TextDocumentDidSave:   s.textDocumentDidSave,
		TextDocumentHover:     s.textDocumentHover,
	}

	s.server = server.NewServer(&s.handler, lsName, false)

	return s
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindFull),
		Save: &protocol.SaveOptions{
			IncludeText: boolPtr(true),
		},
	}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &s.version,
		},
	}, nil
}

func (s *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Infof("%s %s initialized", lsName, s.version)
	return nil
}

func (s *Server) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (s *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.store.Update(uri, params.TextDocument.Text)
	s.publish(ctx, uri)
	return nil
}

func (s *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	uri := string(params.TextDocument.URI)
	change := params.ContentChanges[len(params.ContentChanges)-1]
	if whole, ok := change.(protocol.TextDocumentContentChangeEventWhole); ok {
		s.store.Update(uri, whole.Text)
		s.publish(ctx, uri)
	}
	return nil
}

func (s *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	s.store.Remove(uri)
	ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) textDocumentDidSave(ctx *glsp.Context, params *protocol.DidSaveTextDocumentParams) error {
	uri := string(params.TextDocument.URI)
	if params.Text != nil {
		s.store.Update(uri, *params.Text)
	}
	s.publish(ctx, uri)
	return nil
}

func (s *Server) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.store.Get(string(params.TextDocument.URI))
	if !ok {
		return nil, nil
	}
	return Hover(text, int(params.Position.Line)), nil
}

func (s *Server) publish(ctx *glsp.Context, uri string) {
	text, ok := s.store.Get(uri)
	if !ok {
		return
	}
	diagnostics := Diagnostics(text)
	log.Debugf("%s: %d diagnostics", uri, len(diagnostics))
	ctx.Notify(string(protocol.ServerTextDocumentPublishDiagnostics), protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentUri(uri),
		Diagnostics: diagnostics,
	})
}

// Diagnostics reports one error per failing line. The range starts at the
// error column and runs to the end of the line.
func Diagnostics(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	for _, lr := range Analyze(text) {
		if lr.Result.Err == nil {
			continue
		}
		start := 0
		if pos, ok := expr.ErrorPosition(lr.Result.Err); ok {
			start = utf16Len(lr.Text[:pos.Offset])
		}
		end := utf16Len(lr.Text)
		severity := protocol.DiagnosticSeverityError
		source := lsName
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    lineRange(lr.Line, start, end),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: format.ErrorKind(lr.Result.Err)},
			Source:   &source,
			Message:  lr.Result.Err.Error(),
		})
	}
	return diagnostics
}

// Hover describes the result of the expression on line, or returns nil for
// blank and out of range lines.
func Hover(text string, line int) *protocol.Hover {
	for _, lr := range Analyze(text) {
		if lr.Line != line {
			continue
		}
		value := "= " + strconv.FormatInt(lr.Result.Value, 10)
		if lr.Result.Err != nil {
			value = "error: " + lr.Result.Err.Error()
		}
		r := lineRange(lr.Line, 0, utf16Len(lr.Text))
		return &protocol.Hover{
			Contents: protocol.MarkupContent{
				Kind:  protocol.MarkupKindPlainText,
				Value: value,
			},
			Range: &r,
		}
	}
	return nil
}

func lineRange(line, start, end int) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(start)},
		End:   protocol.Position{Line: protocol.UInteger(line), Character: protocol.UInteger(end)},
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(kind protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &kind
}

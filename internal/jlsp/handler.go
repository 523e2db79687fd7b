// Package jlsp implements the jlitec-lsp handler: parse- and
// typecheck-diagnostics over LSP, nothing more. Grounded on
// kanso/internal/lsp's handler.go, trimmed to a diagnostics-only scope
// (no semantic tokens or completion -- JLite's
// editor tooling need is "tell me what's broken", not full IDE
// intelligence).
package jlsp

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"jlitec/internal/parser"
	"jlitec/internal/sema"
)

// Handler implements the LSP methods jlitec-lsp wires into a
// protocol.Handler.
type Handler struct {
	mu    sync.Mutex
	cache map[string]struct{}
}

// NewHandler builds an empty Handler ready to wire into protocol.Handler.
func NewHandler() *Handler {
	return &Handler{cache: make(map[string]struct{})}
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }

// Initialize advertises full-document sync -- the only capability a
// diagnostics-only server needs.
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	return nil
}

// TextDocumentDidOpen parses and typechecks the newly opened file and
// publishes whatever diagnostics result (an empty slice clears any
// diagnostics the client is already showing).
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	return h.publishDiagnostics(ctx, params.TextDocument.URI)
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	path, err := uriToPath(params.TextDocument.URI)
	if err != nil {
		return err
	}
	h.mu.Lock()
	delete(h.cache, path)
	h.mu.Unlock()
	return nil
}

// TextDocumentDidChange re-typechecks on every document update. Like the
// teacher's handler, it re-reads from disk rather than trusting the
// synced buffer content -- editors that save-on-change (the common case)
// still get fresh diagnostics; one that doesn't will lag until save.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	return h.publishDiagnostics(ctx, params.TextDocument.URI)
}

func (h *Handler) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri) error {
	path, err := uriToPath(uri)
	if err != nil {
		return fmt.Errorf("jlsp: invalid uri %s: %w", uri, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("jlsp: reading %s: %w", path, err)
	}

	h.mu.Lock()
	h.cache[path] = struct{}{}
	h.mu.Unlock()

	diagnostics := diagnoseSource(path, string(raw))

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
	return nil
}

// diagnoseSource runs the full parse+sema front end over source and
// converts whatever it finds -- a syntax error, a single type error, or
// the accumulated non-fatal warnings from a clean analysis -- into LSP
// diagnostics.
func diagnoseSource(path, source string) []protocol.Diagnostic {
	prog, err := parser.Parse(path, source)
	if err != nil {
		if perr, ok := err.(*parser.Error); ok {
			return []protocol.Diagnostic{diagnosticFromCompilerError(perr.Diagnostic)}
		}
		return []protocol.Diagnostic{{
			Range:    zeroRange(),
			Severity: severityPtr(protocol.DiagnosticSeverityError),
			Source:   ptrString("jlitec"),
			Message:  err.Error(),
		}}
	}

	_, warnings, analyzeErr := sema.Analyze(prog)
	diagnostics := make([]protocol.Diagnostic, 0, len(warnings)+1)
	for _, w := range warnings {
		diagnostics = append(diagnostics, diagnosticFromCompilerError(w))
	}
	if analyzeErr != nil {
		if cerr, ok := sema.AsCompilerError(analyzeErr); ok {
			diagnostics = append(diagnostics, diagnosticFromCompilerError(cerr))
		} else {
			diagnostics = append(diagnostics, protocol.Diagnostic{
				Range:    zeroRange(),
				Severity: severityPtr(protocol.DiagnosticSeverityError),
				Source:   ptrString("jlitec"),
				Message:  analyzeErr.Error(),
			})
		}
	}
	return diagnostics
}

func zeroRange() protocol.Range {
	return protocol.Range{Start: protocol.Position{}, End: protocol.Position{Character: 1}}
}

func uriToPath(rawURI protocol.DocumentUri) (string, error) {
	u, err := url.Parse(string(rawURI))
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}
	path := u.Path
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path), nil
}

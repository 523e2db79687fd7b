// Package main implements jlitec-lsp: a minimal language server exposing
// parse/typecheck diagnostics for JLite source files. Grounded on
// kanso/cmd/kanso-lsp/main.go's handler wiring, trimmed to the
// diagnostics-only scope internal/jlsp implements (no completion, no
// semantic tokens -- JLite's editor tooling need is "tell me what's
// broken", not full IDE intelligence).
package main

import (
	"log"
	"os"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"jlitec/internal/jlsp"
)

const lsName = "jlitec"

var version = "0.1.0"

func main() {
	commonlog.Configure(1, nil)

	h := jlsp.NewHandler()

	handler := protocol.Handler{
		Initialize:            h.Initialize,
		Initialized:           h.Initialized,
		Shutdown:              h.Shutdown,
		TextDocumentDidOpen:   h.TextDocumentDidOpen,
		TextDocumentDidClose:  h.TextDocumentDidClose,
		TextDocumentDidChange: h.TextDocumentDidChange,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Printf("Starting jlitec-lsp %s...", version)

	if err := s.RunStdio(); err != nil {
		log.Println("Error starting jlitec-lsp server:", err)
		os.Exit(1)
	}
}

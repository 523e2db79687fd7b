// Package options holds the process-wide, read-mostly configuration every
// pipeline stage consults: optimization/annotation toggles, debug-dump
// flags, and the shared logger. Grounded on
// original_source/src/util/options.py's module-level toggles, restructured
// as a single struct set once at startup (cmd/jlitec's flag parsing, with
// jlitec.yaml supplying defaults) rather than package globals mutated by
// setter functions.
package options

import (
	"github.com/segmentio/ksuid"
	"github.com/tliron/commonlog"
)

// Options is the resolved configuration for one compiler invocation.
// Mirrors src/util/options.py's toggles one-for-one, plus the project-file
// and debug-dump additions this compiler adds on top of the original's.
type Options struct {
	Optimize  bool
	Annotate  bool
	Verbose   bool
	Quiet     bool
	NoOutput  bool

	DumpIR3       bool
	DumpIR3Lowered bool
	DumpIR3Opt    bool

	// OutputDir, when set, is the directory a relative .s output path is
	// joined onto. Debug dump sidecars are always written next to the
	// source file; with OutputDir empty the .s path is used as given (by
	// default the input's base name, in the current directory).
	OutputDir string

	// RunID is a fresh sortable id generated for each invocation. Nothing
	// in the compiler reads it, and dump sidecar file names do not include
	// it.
	RunID string
}

// New builds an Options with the fixed defaults src/util/options.py starts
// with (optimizations off, annotations on, everything else off) and a
// fresh run id.
func New() *Options {
	return &Options{
		Annotate: true,
		RunID:    ksuid.New().String(),
	}
}

// IR3DumpSuffix returns the sidecar file extension for one of the three
// dump points, or "" if none apply -- used by cmd/jlitec when deciding
// where to write a requested dump.
func (o *Options) IR3DumpSuffix(stage string) string {
	switch stage {
	case "raw":
		if o.DumpIR3 {
			return ".ir3"
		}
	case "lowered":
		if o.DumpIR3Lowered {
			return ".ir3-lowered"
		}
	case "opt":
		if o.DumpIR3Opt {
			return ".ir3-opt"
		}
	}
	return ""
}

// Logger is the shared commonlog instance every pipeline stage logs
// through, instead of each package reaching for its own fmt.Printf the way
// the original Python did. Configure must run before any stage logs.
var Logger commonlog.Logger = commonlog.GetLogger("jlitec")

// Configure wires the shared Logger's verbosity to the resolved Options,
// generalizing kanso/cmd/kanso-lsp/main.go's single commonlog.Configure(1,
// nil) call to a verbosity level chosen by -v/--quiet.
func Configure(o *Options) {
	level := 0
	switch {
	case o.Quiet:
		level = 0
	case o.Verbose:
		level = 2
	default:
		level = 1
	}
	commonlog.Configure(level, nil)
	Logger = commonlog.GetLogger("jlitec")
}

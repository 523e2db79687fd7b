// Package main implements the jlitec command line driver: parse, sema,
// optimize, lower, register-allocate, select, peephole, assemble.
// Grounded on original_source/compile.py's parse_args/__main__ block and
// structured as a minimal argv parser in the idiom of
// kanso/cmd/kanso-cli/main.go (no flag library, color.Green/color.Red
// banners).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"jlitec/internal/asmout"
	"jlitec/internal/ast"
	"jlitec/internal/codegen"
	"jlitec/internal/declparse"
	"jlitec/internal/errors"
	"jlitec/internal/iropt"
	"jlitec/internal/ir3"
	"jlitec/internal/options"
	"jlitec/internal/parser"
	"jlitec/internal/peephole"
	"jlitec/internal/regalloc"
	"jlitec/internal/sema"
)

func usage() {
	fmt.Fprintln(os.Stderr, `usage: jlitec [flags] <input.j>

flags:
  -O, --opt              enable IR3 optimizations
  -a, --annotate          keep per-instruction annotations (default)
  -na, --no-annotate      strip per-instruction annotations
  -v, --verbose           verbose logging
  -q, --quiet             suppress all logging
  -no, --no-output        typecheck only, do not emit assembly
  --dump-ir3              write <input>.ir3 (pre-lowering IR3)
  --dump-ir3-lowered      write <input>.ir3-lowered (post-lowering IR3)
  --dump-ir3-opt          write <input>.ir3-opt (post-optimization IR3)
  --decls <file.jlitehdr> forward-declare external classes (repeatable)
  -o <file>               output assembly path ('-' for stdout)`)
}

// flagSet tracks which flags the user passed explicitly on the command
// line, so a jlitec.yaml's defaults only fill in what was never set here.
type flagSet map[string]bool

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	o := options.New()
	set := flagSet{}
	var inputPath, outputPath string
	var declPaths []string

	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-O", "--opt":
			o.Optimize = true
			set["optimize"] = true
		case "-a", "--annotate":
			o.Annotate = true
			set["annotate"] = true
		case "-na", "--no-annotate":
			o.Annotate = false
			set["annotate"] = true
		case "-v", "--verbose":
			o.Verbose = true
		case "-q", "--quiet":
			o.Quiet = true
		case "-no", "--no-output":
			o.NoOutput = true
		case "--dump-ir3":
			o.DumpIR3 = true
		case "--dump-ir3-lowered":
			o.DumpIR3Lowered = true
		case "--dump-ir3-opt":
			o.DumpIR3Opt = true
		case "--decls":
			i++
			if i >= len(args) {
				usage()
				return 1
			}
			declPaths = append(declPaths, args[i])
		case "-o":
			i++
			if i >= len(args) {
				usage()
				return 1
			}
			outputPath = args[i]
			set["output-dir"] = true
		case "-h", "--help":
			usage()
			return 0
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "jlitec: unrecognised flag %q\n", arg)
				usage()
				return 1
			}
			if inputPath != "" {
				fmt.Fprintf(os.Stderr, "jlitec: unexpected argument %q\n", arg)
				usage()
				return 1
			}
			inputPath = arg
		}
	}

	if inputPath == "" {
		usage()
		return 1
	}

	cfg, err := options.LoadProjectConfig(filepath.Dir(inputPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "jlitec: reading jlitec.yaml: %v\n", err)
		return 1
	}
	cfg.ApplyDefaults(o, set)
	options.Configure(o)

	if outputPath == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		outputPath = base + ".s"
	}
	if o.OutputDir != "" && outputPath != "-" && !filepath.IsAbs(outputPath) {
		outputPath = filepath.Join(o.OutputDir, outputPath)
	}

	useColor := term.IsTerminal(int(os.Stderr.Fd()))

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
		return 1
	}

	prog, err := parser.Parse(inputPath, string(source))
	if err != nil {
		reportDiagnostic(inputPath, string(source), err, useColor)
		return 1
	}

	for _, declPath := range declPaths {
		if err := mergeDecls(prog, declPath); err != nil {
			reportDiagnostic(declPath, "", err, useColor)
			return 1
		}
	}

	ir3prog, warnings, err := sema.Analyze(prog)
	for _, w := range warnings {
		reportCompilerError(inputPath, string(source), w, useColor)
	}
	if err != nil {
		reportDiagnostic(inputPath, string(source), err, useColor)
		return 1
	}

	if suffix := o.IR3DumpSuffix("raw"); suffix != "" {
		if err := dumpIR3(inputPath, suffix, ir3prog); err != nil {
			fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
			return 1
		}
	}

	if o.NoOutput {
		if !o.Quiet {
			color.Green("%s: no errors", inputPath)
		}
		return 0
	}

	if o.Optimize {
		for _, fn := range ir3prog.Funcs {
			iropt.NewPipeline().Run(fn)
		}
		if suffix := o.IR3DumpSuffix("opt"); suffix != "" {
			if err := dumpIR3(inputPath, suffix, ir3prog); err != nil {
				fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
				return 1
			}
		}
	}

	classes := codegen.BuildClassLayouts(ir3prog.Classes)
	cs := codegen.NewCodegenState()
	var bodies [][]string

	loweredSuffix := o.IR3DumpSuffix("lowered")
	if loweredSuffix != "" {
		if err := os.WriteFile(dumpPath(inputPath, loweredSuffix), nil, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
			return 1
		}
	}

	for _, fn := range ir3prog.Funcs {
		alloc, err := regalloc.Allocate(fn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
			return 1
		}
		if loweredSuffix != "" {
			if err := appendIR3Dump(inputPath, loweredSuffix, fn); err != nil {
				fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
				return 1
			}
		}

		fs := codegen.NewFuncState(fn, alloc, classes)
		codegen.Select(cs, fs)
		peephole.Optimize(fs)
		bodies = append(bodies, fs.Finalise(o.Annotate))
	}

	asm := asmout.Assemble(cs, bodies)

	if outputPath == "-" {
		fmt.Print(asm)
		return 0
	}
	if err := os.WriteFile(outputPath, []byte(asm), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "jlitec: %v\n", err)
		return 1
	}
	if !o.Quiet {
		color.Green("%s: wrote %s", inputPath, outputPath)
	}
	return 0
}

// dumpIR3 writes one pretty-printed snapshot of the whole program next to
// the input file, truncating any prior contents from an earlier dump
// point.
func dumpIR3(inputPath, suffix string, p *ir3.Program) error {
	return os.WriteFile(dumpPath(inputPath, suffix), []byte(p.String()), 0o644)
}

// appendIR3Dump appends one function's post-lowering IR3 to the sidecar
// file, since lowering+regalloc run per-function rather than over the
// whole program at once.
func appendIR3Dump(inputPath, suffix string, fn *ir3.FuncDefn) error {
	f, err := os.OpenFile(dumpPath(inputPath, suffix), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(fn.String())
	return err
}

func dumpPath(inputPath, suffix string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + suffix
}

// reportDiagnostic renders any error as a CompilerError if one can be
// extracted (a parse error or a sema diagnostic), falling back to a bare
// message for a FatalError raised deep in the pipeline.
func reportDiagnostic(filename, source string, err error, useColor bool) {
	if perr, ok := err.(*parser.Error); ok {
		reportCompilerError(filename, source, perr.Diagnostic, useColor)
		return
	}
	if derr, ok := err.(*declparse.Error); ok {
		reportCompilerError(filename, source, derr.Diagnostic, useColor)
		return
	}
	if cerr, ok := sema.AsCompilerError(err); ok {
		reportCompilerError(filename, source, cerr, useColor)
		return
	}
	color.NoColor = !useColor
	color.Red("%s: %v", filename, err)
}

// mergeDecls reads one .jlitehdr sidecar and folds its forward-declared
// classes into prog, so sema sees their field layout without requiring a
// second translation unit's method bodies.
func mergeDecls(prog *ast.Program, declPath string) error {
	raw, err := os.ReadFile(declPath)
	if err != nil {
		return err
	}
	hf, err := declparse.ParseString(declPath, string(raw))
	if err != nil {
		return err
	}
	return declparse.MergeInto(prog, hf)
}

func reportCompilerError(filename, source string, cerr errors.CompilerError, useColor bool) {
	color.NoColor = !useColor
	reporter := errors.NewErrorReporter(filename, source)
	fmt.Fprint(os.Stderr, reporter.FormatError(cerr))
}

// Package sema resolves names, checks types, and lowers a parsed JLite
// program into flat internal/ir3. Grounded on
// original_source/src/typecheck.py's TypecheckState and its
// typecheck_*/convert_to_basic_blocks functions, restructured in the
// visitor/error-accumulation shape of kanso/internal/semantic/analyzer.go.
package sema

import (
	"fmt"

	"jlitec/internal/ast"
	"jlitec/internal/errors"
	"jlitec/internal/ir3"
	"jlitec/internal/token"
)

// funcType is one method overload's signature, keyed by parameter types
// only (JLite forbids overloading on return type alone).
type funcType struct {
	className string
	params    []string
	retType   string
	pos       token.Position
}

func (f funcType) String() string {
	return fmt.Sprintf("%s (%v)", f.retType, f.params)
}

func methodSignature(m *ast.MethodDecl) funcType {
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = p.Type
	}
	return funcType{className: m.ClassName, params: params, retType: m.ReturnType, pos: m.Pos}
}

// constantVoid is the internal-only placeholder ir3.Value standing in for
// the "result" of a Void-returning call used in expression position; it
// must never reach internal/codegen, since a Void call is only ever valid
// as a bare statement.
type constantVoid struct{ loc token.Position }

func (v constantVoid) Pos() token.Position  { return v.loc }
func (v constantVoid) String() string       { return "void" }
func (v constantVoid) Equal(o ir3.Value) bool {
	_, ok := o.(constantVoid)
	return ok
}
func (v constantVoid) HashKey() string { return "void" }

// varEntry pairs a declaration with whether it lives in the object-field
// scope (and therefore must be read/written via "this" at IR3 level) or is
// a genuine local/parameter.
type varEntry struct {
	decl    ir3.VarDecl
	isField bool
}

// state carries the running resolution context for one program: declared
// classes/overload sets, the scope stack, the compiler-temporary pool, and
// the diagnostics accumulated so far. Unlike typecheck.py's TypecheckState,
// failure aborts analysis immediately (every typecheck function returns
// its first error) rather than
// continuing with a possibly-inconsistent IR -- JLite's whole-program
// batch compile has no use for partial results.
type state struct {
	classDecls map[string]*ast.ClassDecl
	funcDecls  map[string]map[string][]funcType
	classes    map[string]ir3.ClassDefn

	varStack []map[string]varEntry
	tmpVars  map[string]ir3.VarDecl
	tmpOrder []string

	labelNum int

	currentFn *funcType

	warnings []errors.CompilerError
}

func newState() *state {
	return &state{
		classDecls: map[string]*ast.ClassDecl{},
		funcDecls:  map[string]map[string][]funcType{},
		classes:    map[string]ir3.ClassDefn{},
		tmpVars:    map[string]ir3.VarDecl{},
	}
}

func (ts *state) newLabel() string {
	ts.labelNum++
	return fmt.Sprintf(".L%d", ts.labelNum)
}

func (ts *state) warn(err errors.CompilerError) {
	ts.warnings = append(ts.warnings, err)
}

func (ts *state) declareClass(cls *ast.ClassDecl) error {
	if _, ok := ts.classDecls[cls.Name]; ok {
		return semaErr(errors.DuplicateDeclaration(cls.Name, cls.Pos))
	}
	ts.classDecls[cls.Name] = cls
	return nil
}

func (ts *state) declareFunc(m *ast.MethodDecl) error {
	if ts.funcDecls[m.ClassName] == nil {
		ts.funcDecls[m.ClassName] = map[string][]funcType{}
	}
	methods := ts.funcDecls[m.ClassName]
	mt := methodSignature(m)
	for _, existing := range methods[m.Name] {
		if sameParams(existing.params, mt.params) {
			return semaErr(errors.DuplicateDeclaration(
				fmt.Sprintf("%s::%s(%v)", m.ClassName, m.Name, mt.params), m.Pos))
		}
	}
	methods[m.Name] = append(methods[m.Name], mt)
	return nil
}

func sameParams(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (ts *state) addClass(c ir3.ClassDefn) error {
	if _, ok := ts.classes[c.Name]; ok {
		return semaErr(errors.DuplicateDeclaration(c.Name, c.Loc))
	}
	ts.classes[c.Name] = c
	return nil
}

func (ts *state) enterFunction(ft funcType) { ts.currentFn = &ft }

func (ts *state) isValidType(name string) bool {
	if name == "Int" || name == "String" || name == "Bool" || name == "Void" {
		return true
	}
	_, ok := ts.classDecls[name]
	return ok
}

func (ts *state) isObjectType(name string) bool {
	return ts.isValidType(name) && name != "Int" && name != "Bool" && name != "Void"
}

func (ts *state) getClassDecl(pos token.Position, name string) (*ast.ClassDecl, error) {
	cls, ok := ts.classDecls[name]
	if !ok {
		return nil, semaErr(errors.UndefinedClass(name, pos))
	}
	return cls, nil
}

func (ts *state) pushScope() { ts.varStack = append(ts.varStack, map[string]varEntry{}) }
func (ts *state) popScope()  { ts.varStack = ts.varStack[:len(ts.varStack)-1] }

func (ts *state) resetTmps() {
	ts.tmpVars = map[string]ir3.VarDecl{}
	ts.tmpOrder = nil
}

// getVar resolves a name against the compiler-temporary table first (which
// is flat and never shadowed), then the scope stack innermost-first.
func (ts *state) getVar(pos token.Position, name string) (ir3.VarDecl, bool, error) {
	if v, ok := ts.tmpVars[name]; ok {
		return v, false, nil
	}
	for i := len(ts.varStack) - 1; i >= 0; i-- {
		if v, ok := ts.varStack[i][name]; ok {
			return v.decl, v.isField, nil
		}
	}
	var inScope []string
	for _, scope := range ts.varStack {
		for n := range scope {
			inScope = append(inScope, n)
		}
	}
	return ir3.VarDecl{}, false, semaErr(errors.UndefinedVariable(name, pos, inScope))
}

func (ts *state) addVar(decl ir3.VarDecl, isField bool) error {
	if len(ts.varStack) == 0 {
		return errors.Fatalf(errors.ErrorUnassignedVarUsed, "no scope to add variable %q into", decl.Name)
	}
	top := ts.varStack[len(ts.varStack)-1]
	if _, ok := top[decl.Name]; ok {
		return semaErr(errors.DuplicateDeclaration(decl.Name, decl.Loc))
	}
	top[decl.Name] = varEntry{decl: decl, isField: isField}
	return nil
}

func (ts *state) makeTemp(pos token.Position, ty string) ir3.VarDecl {
	n := fmt.Sprintf("_t%d", len(ts.tmpOrder))
	v := ir3.VarDecl{Loc: pos, Name: n, Type: ty}
	ts.tmpVars[n] = v
	ts.tmpOrder = append(ts.tmpOrder, n)
	return v
}

// promoteIfNecessary returns a VarDecl that already names v, materializing
// v into a fresh temporary first if it is not already a VarRef (e.g. a bare
// literal used as the receiver of a dot operation).
func (ts *state) promoteIfNecessary(v ir3.Value) (ir3.VarDecl, []ir3.Stmt, error) {
	if ref, ok := v.(ir3.VarRef); ok {
		decl, _, err := ts.getVar(ref.Pos(), ref.Name)
		if err != nil {
			return ir3.VarDecl{}, nil, err
		}
		return decl, nil, nil
	}
	ty, err := ts.getValueType(v)
	if err != nil {
		return ir3.VarDecl{}, nil, err
	}
	tmp := ts.makeTemp(v.Pos(), ty)
	return tmp, []ir3.Stmt{&ir3.AssignOp{Dest: tmp.Name, Rhs: &ir3.ValueExpr{Val: v}}}, nil
}

// getValueType recovers a Value's static type, including the two
// synthetic types ($NullObject for a null literal, Void for a discarded
// call result) that never appear as a real declared type.
func (ts *state) getValueType(v ir3.Value) (string, error) {
	switch val := v.(type) {
	case ir3.ConstantInt:
		return "Int", nil
	case ir3.ConstantBool:
		return "Bool", nil
	case ir3.ConstantString:
		return "String", nil
	case ir3.ConstantNull:
		return "$NullObject", nil
	case constantVoid:
		return "Void", nil
	case ir3.VarRef:
		decl, _, err := ts.getVar(val.Loc, val.Name)
		if err != nil {
			return "", err
		}
		return decl.Type, nil
	default:
		return "", errors.Fatalf(errors.ErrorUnassignedVarUsed, "unknown ir3.Value kind %T", v)
	}
}

func (ts *state) isCompatibleAssignment(targetTy, valueTy string) bool {
	return targetTy == valueTy || (valueTy == "$NullObject" && ts.isObjectType(targetTy))
}

// findOverload narrows overloads to the ones whose parameters accept
// argTypes, raising an ambiguous-call error if more than one matches.
func findOverload(ts *state, pos token.Position, argTypes []string, overloads []funcType) (*funcType, error) {
	var matches []funcType
	for _, o := range overloads {
		if len(o.params) != len(argTypes) {
			continue
		}
		ok := true
		for i := range argTypes {
			if !ts.isCompatibleAssignment(o.params[i], argTypes[i]) {
				ok = false
				break
			}
		}
		if ok {
			matches = append(matches, o)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return &matches[0], nil
	default:
		b := errors.New(errors.ErrorInvalidArguments,
			fmt.Sprintf("ambiguous call to function: %d overloads match", len(matches)), pos)
		for _, m := range matches {
			b = b.WithNote(fmt.Sprintf("candidate at %d:%d", m.pos.Line, m.pos.Column))
		}
		return nil, semaErr(b.Build())
	}
}

// semaError wraps a CompilerError so it can travel as a Go error while
// still carrying the structured diagnostic cmd/jlitec's reporter needs.
type semaError struct{ err errors.CompilerError }

func (e *semaError) Error() string { return e.err.Message }

func semaErr(e errors.CompilerError) error { return &semaError{err: e} }

// AsCompilerError extracts the structured diagnostic from an error
// returned by Analyze, if it was produced by this package.
func AsCompilerError(err error) (errors.CompilerError, bool) {
	se, ok := err.(*semaError)
	if !ok {
		return errors.CompilerError{}, false
	}
	return se.err, true
}

package sema

import (
	"fmt"

	"jlitec/internal/ast"
	"jlitec/internal/errors"
	"jlitec/internal/ir3"
)

// typecheckMethod lowers one method body into a mangled ir3.FuncDefn.
// Grounded on typecheck_method: a scope for "this"+params, then a nested
// scope for locals (so locals may shadow params, which may shadow class
// fields). Optimization is run separately by a later pipeline stage rather
// than inline here, unlike the original.
func typecheckMethod(ts *state, meth *ast.MethodDecl) (*ir3.FuncDefn, error) {
	ts.pushScope()
	defer ts.popScope()

	this := ir3.VarDecl{Loc: meth.Pos, Name: "this", Type: meth.ClassName}
	params := []ir3.VarDecl{this}
	if err := ts.addVar(this, false); err != nil {
		return nil, err
	}

	paramNames := map[string]bool{}
	for _, p := range meth.Params {
		if paramNames[p.Name] {
			return nil, semaErr(errors.DuplicateDeclaration(p.Name, p.Pos))
		}
		paramNames[p.Name] = true

		if !ts.isValidType(p.Type) || p.Type == "Void" {
			return nil, semaErr(errors.New(errors.ErrorTypeMismatch,
				fmt.Sprintf("parameter '%s' has invalid type '%s'", p.Name, p.Type), p.Pos).Build())
		}

		decl := ir3.VarDecl{Loc: p.Pos, Name: p.Name, Type: p.Type}
		if err := ts.addVar(decl, false); err != nil {
			return nil, err
		}
		params = append(params, decl)
	}

	if !ts.isValidType(meth.ReturnType) {
		return nil, semaErr(errors.New(errors.ErrorTypeMismatch,
			fmt.Sprintf("return type '%s' is not a valid type", meth.ReturnType), meth.Pos).Build())
	}

	ts.pushScope()

	localNames := map[string]bool{}
	var locals []ir3.VarDecl
	for _, v := range meth.Locals {
		if localNames[v.Name] {
			ts.popScope()
			return nil, semaErr(errors.DuplicateDeclaration(v.Name, v.Pos))
		}
		if paramNames[v.Name] {
			ts.warn(errors.ShadowedParameter(v.Name, v.Pos))
		}
		localNames[v.Name] = true

		if !ts.isValidType(v.Type) || v.Type == "Void" {
			ts.popScope()
			return nil, semaErr(errors.New(errors.ErrorTypeMismatch,
				fmt.Sprintf("local variable '%s' has invalid type '%s'", v.Name, v.Type), v.Pos).Build())
		}

		decl := ir3.VarDecl{Loc: v.Pos, Name: v.Name, Type: v.Type}
		if err := ts.addVar(decl, false); err != nil {
			ts.popScope()
			return nil, err
		}
		locals = append(locals, decl)
	}

	ts.enterFunction(funcType{className: meth.ClassName, params: paramTypes(meth.Params), retType: meth.ReturnType, pos: meth.Pos})

	stmts, err := typecheckBlock(ts, meth.Body)
	if err != nil {
		ts.popScope()
		return nil, err
	}

	// whatever temporaries sema minted while lowering the body are hoisted
	// into the function's local list; they never live in varStack scopes.
	for _, name := range ts.tmpOrder {
		locals = append(locals, ts.tmpVars[name])
	}
	ts.resetTmps()

	ts.popScope()

	blocks, err := convertToBasicBlocks(ts, meth.ReturnType, stmts)
	if err != nil {
		return nil, err
	}

	fn := &ir3.FuncDefn{
		Loc:         meth.Pos,
		MangledName: ir3.MangleMethod(meth.ClassName, meth.Name, paramTypes(meth.Params)),
		ClassName:   meth.ClassName,
		MethodName:  meth.Name,
		Params:      params,
		ReturnType:  meth.ReturnType,
		Locals:      locals,
		Blocks:      blocks,
	}

	if meth.ReturnType != "Void" {
		ok, pos := checkAllPathsReturn(meth.Body)
		if !ok {
			return nil, semaErr(errors.MissingReturn(meth.Name, meth.ReturnType, pos))
		}
	}

	if err := ensureCorrectBasicBlocks(fn); err != nil {
		return nil, err
	}

	return fn, nil
}

func paramTypes(params []ast.VarDecl) []string {
	out := make([]string, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// typecheckClass lowers one class: its field layout plus every method body.
// Grounded on typecheck_class.
func typecheckClass(ts *state, cls *ast.ClassDecl) (ir3.ClassDefn, []*ir3.FuncDefn, error) {
	if cls.Name == "Void" || cls.Name == "Int" || cls.Name == "Bool" || cls.Name == "String" {
		return ir3.ClassDefn{}, nil, semaErr(errors.New(errors.ErrorDuplicateDeclaration,
			fmt.Sprintf("class cannot be named '%s'", cls.Name), cls.Pos).Build())
	}

	seen := map[string]bool{}
	var fields []ir3.VarDecl
	for _, f := range cls.Fields {
		if seen[f.Name] {
			return ir3.ClassDefn{}, nil, semaErr(errors.DuplicateDeclaration(
				fmt.Sprintf("%s::%s", cls.Name, f.Name), f.Pos))
		}
		seen[f.Name] = true

		if !ts.isValidType(f.Type) {
			return ir3.ClassDefn{}, nil, semaErr(errors.New(errors.ErrorTypeMismatch,
				fmt.Sprintf("'%s' does not name a valid type", f.Type), f.Pos).Build())
		}
		if f.Type == "Void" {
			return ir3.ClassDefn{}, nil, semaErr(errors.New(errors.ErrorTypeMismatch,
				"fields cannot have 'Void' type", f.Pos).Build())
		}

		fields = append(fields, ir3.VarDecl{Loc: f.Pos, Name: f.Name, Type: f.Type})
	}

	clsDefn := ir3.ClassDefn{Loc: cls.Pos, Name: cls.Name, Fields: fields}
	if err := ts.addClass(clsDefn); err != nil {
		return ir3.ClassDefn{}, nil, err
	}

	ts.pushScope()
	for _, f := range fields {
		if err := ts.addVar(f, true); err != nil {
			ts.popScope()
			return ir3.ClassDefn{}, nil, err
		}
	}

	var methods []*ir3.FuncDefn
	for i := range cls.Methods {
		fn, err := typecheckMethod(ts, &cls.Methods[i])
		if err != nil {
			ts.popScope()
			return ir3.ClassDefn{}, nil, err
		}
		methods = append(methods, fn)
	}
	ts.popScope()

	return clsDefn, methods, nil
}

// Analyze resolves names, checks types, and lowers a whole parsed program
// into flat ir3. Grounded on typecheck_program: classes and method
// signatures are declared in a first pass (so forward references between
// classes used as types or call targets resolve), then bodies are
// typechecked in a second pass. Returns any warnings accumulated along the
// way even on success; the first type error aborts analysis immediately.
func Analyze(program *ast.Program) (*ir3.Program, []errors.CompilerError, error) {
	ts := newState()

	for i := range program.Classes {
		cls := &program.Classes[i]
		if err := ts.declareClass(cls); err != nil {
			return nil, ts.warnings, err
		}
		for j := range cls.Methods {
			if err := ts.declareFunc(&cls.Methods[j]); err != nil {
				return nil, ts.warnings, err
			}
		}
	}

	var classes []ir3.ClassDefn
	var funcs []*ir3.FuncDefn
	for i := range program.Classes {
		clsDefn, methods, err := typecheckClass(ts, &program.Classes[i])
		if err != nil {
			return nil, ts.warnings, err
		}
		classes = append(classes, clsDefn)
		funcs = append(funcs, methods...)
	}

	return &ir3.Program{Classes: classes, Funcs: funcs}, ts.warnings, nil
}

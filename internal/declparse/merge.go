package declparse

import (
	"jlitec/internal/ast"
	"jlitec/internal/errors"
	"jlitec/internal/token"
)

// MergeInto adds every class forward-declared in hf to prog as a
// method-less ast.ClassDecl, so internal/sema sees the field layout of a
// class defined in another translation unit without requiring its method
// bodies. It is an error for a forward-declared name to collide with a
// class prog already defines (or with an earlier forward declaration):
// MergeInto returns a duplicate-declaration error and a program must not
// declare the same class both ways.
func MergeInto(prog *ast.Program, hf *HeaderFile) error {
	declared := make(map[string]bool, len(prog.Classes))
	for _, c := range prog.Classes {
		declared[c.Name] = true
	}

	for _, sig := range hf.Classes {
		if declared[sig.Name] {
			return &Error{Diagnostic: errors.DuplicateDeclaration(sig.Name, token.Position{})}
		}
		declared[sig.Name] = true

		fields := make([]ast.VarDecl, len(sig.Fields))
		for i, f := range sig.Fields {
			fields[i] = ast.VarDecl{Type: f.Type, Name: f.Name}
		}
		prog.Classes = append(prog.Classes, ast.ClassDecl{Name: sig.Name, Fields: fields})
	}
	return nil
}

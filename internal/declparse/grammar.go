// Package declparse implements a participle-based grammar for standalone
// ".jlitehdr" external-declaration files: forward declarations of a
// class's field layout, used to typecheck a translation unit that
// references a class defined elsewhere without pulling in that class's
// full method bodies. Grounded on kanso/grammar/grammar.go
// (struct-tag-driven participle grammar paired with a MustStateful
// lexer), restyled to JLite's much smaller surface -- field lists only,
// no expressions or method bodies.
package declparse

// HeaderFile is the root node: zero or more forward class declarations.
type HeaderFile struct {
	Classes []*ClassSig `@@*`
}

// ClassSig is one forward-declared class: its name and field layout, in
// declaration order (field order matters -- internal/codegen's class
// layout assigns offsets in declaration order within the non-Bool group
// and within the Bool group that follows it).
type ClassSig struct {
	Name   string      `"class" @Ident "{"`
	Fields []*FieldSig `@@* "}"`
}

// FieldSig is one "name: Type;" field declaration. Type is left as a bare
// identifier here; declparse does not itself validate that it names a
// primitive or a previously declared class -- that's internal/sema's job
// once the signature is merged into a Program.
type FieldSig struct {
	Name string `@Ident ":"`
	Type string `@Ident ";"`
}

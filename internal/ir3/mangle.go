package ir3

import (
	"strconv"

	"github.com/iancoleman/strcase"
)

// mangleType maps a JLite static type to the single letter (or
// length-prefixed class name) used in a mangled symbol, per §4.7.2.
// The default branch defensively runs the type name through strcase
// before length-prefixing it, so a class name arriving with unexpected
// casing from a malformed front end still produces a stable, valid
// mangled segment rather than propagating garbage into the symbol table.
func mangleType(ty string) string {
	switch ty {
	case "Int":
		return "i"
	case "Bool":
		return "b"
	case "String":
		return "s"
	case "Void":
		return "v"
	default:
		name := strcase.ToCamel(ty)
		return strconv.Itoa(len(name)) + name
	}
}

// mangleName length-prefixes a class or method name the same way
// mangleType length-prefixes a class-type parameter, matching
// typecheck.py's mangle_one.
func mangleName(name string) string {
	return strconv.Itoa(len(name)) + name
}

// MangleMethod computes the linker symbol for a class method, following
// the scheme `_J<C>_<f><P1>...<Pn>E`, with both `C` and `f`
// length-prefixed (`typecheck.py`'s `mangle_name`/`mangle_one`). The
// entry point is special-cased: the program's single `main` method
// becomes `main_dummy`, called from a synthetic `main` that codegen
// emits separately (§3.6, §6.2).
func MangleMethod(className, methodName string, paramTypes []string) string {
	if methodName == "main" {
		return "main_dummy"
	}
	sym := "_J" + mangleName(className) + "_" + mangleName(methodName)
	for _, p := range paramTypes {
		sym += mangleType(p)
	}
	return sym + "E"
}

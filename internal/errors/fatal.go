package errors

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// FatalError represents an IR/register-allocation/codegen invariant
// violation (§7: "assertion" failures -- they indicate a compiler bug, not
// a user error). Unlike CompilerError, a FatalError has no source position:
// it is raised deep inside the core pipeline where only the IR's own
// bookkeeping (a variable name, a statement id) is available.
type FatalError struct {
	Code    string
	Message string
	cause   error
}

func (f *FatalError) Error() string {
	return fmt.Sprintf("[%s] internal compiler error: %s", f.Code, f.Message)
}

func (f *FatalError) Unwrap() error { return f.cause }

// Fatalf constructs a FatalError and wraps it with a stack trace via
// github.com/pkg/errors so --verbose runs can print exactly where in the
// pipeline an invariant broke.
func Fatalf(code, format string, args ...any) error {
	fe := &FatalError{Code: code, Message: fmt.Sprintf(format, args...)}
	return pkgerrors.WithStack(fe)
}

// StackTrace extracts the pkg/errors stack trace from an error produced by
// Fatalf, if present.
func StackTrace(err error) string {
	type stackTracer interface {
		StackTrace() pkgerrors.StackTrace
	}
	if st, ok := err.(stackTracer); ok {
		return fmt.Sprintf("%+v", st.StackTrace())
	}
	return ""
}

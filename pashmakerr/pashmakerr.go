// ==============================================================================================
// FILE: pashmakerr/pashmakerr.go
// ==============================================================================================
// PACKAGE: pashmakerr
// PURPOSE: Defines the error kinds a Pashmak program can raise, and the Go
//          error type that carries one through the call stack before it is
//          turned into a value.Instance of the Error class at the raise
//          boundary (see interp.Interpreter.raiseError).
// ==============================================================================================

package pashmakerr

import "fmt"

// Kind is one of the spec-defined error kinds surfaced on Error instances.
type Kind string

const (
	SyntaxError               Kind = "SyntaxError"
	VariableError             Kind = "VariableError"
	TypeError                 Kind = "TypeError"
	ArgumentError             Kind = "ArgumentError"
	ModuleError               Kind = "ModuleError"
	FileError                 Kind = "FileError"
	NameError                 Kind = "NameError"
	MethodError               Kind = "MethodError"
	NamespaceContainsDotError Kind = "NamespaceContainsDotError"
	ZeroDivisionError         Kind = "ZeroDivisionError"
	IndexError                Kind = "IndexError"
	KeyError                  Kind = "KeyError"
	NativeError               Kind = "NativeError"
)

// RuntimeError is a Go error carrying a Pashmak error kind plus the source
// location that raised it. It is the vehicle errors travel in before
// Interpreter.raiseError converts them into an Error class instance (or,
// uncaught, prints the frame trace).
type RuntimeError struct {
	Kind       Kind
	Message    string
	FilePath   string
	LineNumber int
	wrapped    error
}

func New(kind Kind, message string) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *RuntimeError) Error() string {
	if e.FilePath != "" {
		return fmt.Sprintf("%s: %s (%s:%d)", e.Kind, e.Message, e.FilePath, e.LineNumber)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RuntimeError) Unwrap() error { return e.wrapped }

// At returns a copy of e with the source location attached.
func (e *RuntimeError) At(filePath string, lineNumber int) *RuntimeError {
	cp := *e
	cp.FilePath = filePath
	cp.LineNumber = lineNumber
	return &cp
}

// Wrap attaches an underlying Go error (e.g. an os.PathError) for errors.Unwrap.
func Wrap(kind Kind, message string, err error) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: message, wrapped: err}
}

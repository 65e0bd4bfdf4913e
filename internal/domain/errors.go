package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	// ErrNotFound indicates a file or component was not found
	ErrNotFound = errors.New("not found")

	// ErrCacheMiss indicates a cache miss
	ErrCacheMiss = errors.New("cache miss")

	// ErrDecode indicates a malformed record, line or document
	ErrDecode = errors.New("decode error")

	// ErrNameMismatch indicates an on-disk name disagrees with the manifest
	ErrNameMismatch = errors.New("name mismatch")

	// ErrIncompatible indicates a python or build compatibility violation
	ErrIncompatible = errors.New("incompatible component")

	// ErrStructural indicates a package layout or inventory defect
	ErrStructural = errors.New("invalid package structure")

	// ErrSchema indicates a document did not conform to its schema
	ErrSchema = errors.New("schema violation")

	// ErrUnsupportedDialect indicates a transformer file of unknown dialect
	ErrUnsupportedDialect = errors.New("unsupported transformer file")
)

// DecodeError represents a malformed record shape, an unparsable integer
// or a missing required key.
type DecodeError struct {
	Source  string
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Source != "" {
		return fmt.Sprintf("%s: %s", e.Source, msg)
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(source, message string, err error) *DecodeError {
	return &DecodeError{
		Source:  source,
		Message: message,
		Err:     err,
	}
}

// NameMismatchError is returned when a component file declares a
// fully-qualified name other than the one derived from the manifest.
type NameMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *NameMismatchError) Error() string {
	return fmt.Sprintf("%s: expected name '%s', got '%s'", e.Path, e.Expected, e.Actual)
}

func (e *NameMismatchError) Is(target error) bool {
	return target == ErrNameMismatch
}

// NewNameMismatchError creates a new NameMismatchError
func NewNameMismatchError(path, expected, actual string) *NameMismatchError {
	return &NameMismatchError{
		Path:     path,
		Expected: expected,
		Actual:   actual,
	}
}

// CompatKind distinguishes the compatibility rule that was violated
type CompatKind string

const (
	// CompatScriptedPython is a python token rejected for a scripted transformer
	CompatScriptedPython CompatKind = "scripted-python"
	// CompatCompiledPython is a python token rejected for a compiled transformer
	CompatCompiledPython CompatKind = "compiled-python"
	// CompatCompiledBuild is a compiled transformer built below the package floor
	CompatCompiledBuild CompatKind = "compiled-build"
)

// CompatibilityError represents a python-compatibility or build-floor violation
type CompatibilityError struct {
	Kind    CompatKind
	Name    string
	Message string
}

func (e *CompatibilityError) Error() string {
	return e.Message
}

func (e *CompatibilityError) Is(target error) bool {
	return target == ErrIncompatible
}

// NewCompatibilityError creates a new CompatibilityError
func NewCompatibilityError(kind CompatKind, name, message string) *CompatibilityError {
	return &CompatibilityError{
		Kind:    kind,
		Name:    name,
		Message: message,
	}
}

// StructuralError covers duplicate names, missing files and help index
// mismatches. Names lists the offending names or keys, if any.
type StructuralError struct {
	Message string
	Names   []string
}

func (e *StructuralError) Error() string {
	if len(e.Names) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Names, ", "))
}

func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// NewStructuralError creates a new StructuralError
func NewStructuralError(message string, names ...string) *StructuralError {
	return &StructuralError{
		Message: message,
		Names:   names,
	}
}

// Structuralf creates a StructuralError with a formatted message
func Structuralf(format string, args ...any) *StructuralError {
	return &StructuralError{Message: fmt.Sprintf(format, args...)}
}

// SchemaError represents a schema-conformance failure
type SchemaError struct {
	Schema   string
	Location string
	Message  string
}

func (e *SchemaError) Error() string {
	if e.Location == "" {
		return fmt.Sprintf("%s: %s", e.Schema, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Schema, e.Location, e.Message)
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// IsValidationFailure reports whether err is a content defect rather than
// an I/O or programming failure.
func IsValidationFailure(err error) bool {
	return errors.Is(err, ErrDecode) ||
		errors.Is(err, ErrNameMismatch) ||
		errors.Is(err, ErrIncompatible) ||
		errors.Is(err, ErrStructural) ||
		errors.Is(err, ErrSchema)
}

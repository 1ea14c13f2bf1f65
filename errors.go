// FILE: lixenwraith/tomlcfg/errors.go
package tomlcfg

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is matched by every *SyntaxError
	ErrSyntax = errors.New("override file syntax error")
	// ErrTypeMismatch is matched by every *TypeMismatchError
	ErrTypeMismatch = errors.New("override type mismatch")
	// ErrInvalidSchema reports a malformed schema declaration
	ErrInvalidSchema = errors.New("invalid schema")
	// ErrOverrideRequired is returned when an override is required but the root location,
	// the file or the namespace section is missing
	ErrOverrideRequired = errors.New("override file required but not found")
	// ErrRootNotFound is returned by FindRoot when no build manifest exists above a directory
	ErrRootNotFound = errors.New("build manifest not found")
	// ErrEmit reports a resolved value that cannot be emitted as Go source
	ErrEmit = errors.New("emission failed")
)

// SyntaxError reports a malformed override file.
// It is fatal for every namespace resolved against the file.
type SyntaxError struct {
	Path   string // File the text was read from (may be a display name)
	Line   int    // 1-based line, 0 when unknown
	Column int    // 1-based column, 0 when unknown
	Msg    string
}

func (e *SyntaxError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Msg)
}

// Is makes errors.Is(err, ErrSyntax) match.
func (e *SyntaxError) Is(target error) bool { return target == ErrSyntax }

// TypeMismatchError reports an override whose literal kind differs from the declared kind.
type TypeMismatchError struct {
	Namespace string
	Field     string
	Declared  Kind
	Raw       RawValue
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("[%s] %s: declared %s, override file supplies %s %s",
		e.Namespace, e.Field, e.Declared, e.Raw.TypeName(), e.Raw)
}

// Is makes errors.Is(err, ErrTypeMismatch) match.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// schemaError builds an ErrInvalidSchema wrapped error
func schemaError(namespace, format string, args ...any) error {
	return fmt.Errorf("%w: namespace %q: %s", ErrInvalidSchema, namespace, fmt.Sprintf(format, args...))
}

package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"strings"
)

// SSGError is a classified error carrying the component and page it came from.
type SSGError struct {
	kind      Kind
	component string
	path      string
	message   string
	cause     error
	context   map[string]any
}

func (e *SSGError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]", e.kind)
	if e.component != "" {
		fmt.Fprintf(&b, " %s", e.component)
	}
	if e.path != "" {
		fmt.Fprintf(&b, " (%s)", e.path)
	}
	if e.message != "" {
		fmt.Fprintf(&b, " %s", e.message)
	}
	if e.cause != nil {
		fmt.Fprintf(&b, ": %v", e.cause)
	}
	return b.String()
}

// Unwrap implements Go 1.13+ error unwrapping.
func (e *SSGError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a sentinel of the same kind.
func (e *SSGError) Is(target error) bool {
	t, ok := target.(*SSGError)
	if !ok {
		return false
	}
	if t.message == "" && t.component == "" && t.path == "" {
		return e.kind == t.kind
	}
	return e == t
}

func (e *SSGError) Kind() Kind              { return e.kind }
func (e *SSGError) Component() string       { return e.component }
func (e *SSGError) Path() string            { return e.path }
func (e *SSGError) Message() string         { return e.message }
func (e *SSGError) Context() map[string]any { return maps.Clone(e.context) }

// WithPath returns a copy of the error bound to a page path.
func (e *SSGError) WithPath(path string) *SSGError {
	cp := *e
	cp.path = path
	return &cp
}

// As extracts the first SSGError in err's chain.
func As(err error) (*SSGError, bool) {
	var se *SSGError
	if stderrors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// KindOf returns the kind of the first SSGError in err's chain.
func KindOf(err error) (Kind, bool) {
	if se, ok := As(err); ok {
		return se.kind, true
	}
	return "", false
}

// ComponentOf returns the innermost non-empty component name in err's chain.
func ComponentOf(err error) string {
	component := ""
	for err != nil {
		if se, ok := err.(*SSGError); ok && se.component != "" {
			component = se.component
		}
		err = stderrors.Unwrap(err)
	}
	return component
}

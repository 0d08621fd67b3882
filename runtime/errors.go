package runtime

import (
	"errors"
	"fmt"
)

// ErrConstructionNotAllowed indicates script attempted to construct a type
// with no declared constructor.
var ErrConstructionNotAllowed = errors.New("construction not allowed")

// ScriptError is an error visible to and catchable by script code. It is
// the translation boundary for native failures raised during dispatch;
// programmer defects (duplicate registration, identity-map corruption) are
// never ScriptErrors; those panic.
type ScriptError struct {
	Message string
	cause   error
}

// NewScriptError creates a catchable script error.
func NewScriptError(format string, args ...any) *ScriptError {
	return &ScriptError{Message: fmt.Sprintf(format, args...)}
}

// WrapScriptError creates a catchable script error carrying an underlying
// native failure, preserving its message for errors.Is/As.
func WrapScriptError(cause error, format string, args ...any) *ScriptError {
	return &ScriptError{Message: fmt.Sprintf(format, args...), cause: cause}
}

func (e *ScriptError) Error() string { return e.Message }

func (e *ScriptError) Unwrap() error { return e.cause }

// IsScriptError reports whether err is catchable from script.
func IsScriptError(err error) bool {
	var se *ScriptError
	return errors.As(err, &se)
}

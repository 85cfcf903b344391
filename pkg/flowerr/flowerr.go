// Package flowerr defines the error taxonomy shared by the loader,
// validator, executor, and rollback engine. It generalizes streamy's
// pkg/errors and internal/domain/pipeline/errors.go DomainError into the
// single Code/Error/MultiError shape the engine needs end to end.
package flowerr

import (
	"errors"
	"fmt"
	"strings"
)

// Code identifies the kind of failure. Codes are a closed set; callers
// should switch exhaustively rather than string-match messages.
type Code string

const (
	// Loader syntactic/structural.
	CodeInvalidJSON           Code = "INVALID_JSON"
	CodeMissingSchemaVersion  Code = "MISSING_SCHEMA_VERSION"
	CodeMissingFlow           Code = "MISSING_FLOW"
	CodeInvalidFlow           Code = "INVALID_FLOW"
	CodeUnsupportedSchemaVer  Code = "UNSUPPORTED_SCHEMA_VERSION"
	CodeUnknownComponentType  Code = "UNKNOWN_COMPONENT_TYPE"

	// Validator structural errors.
	CodeMissingStartComponent    Code = "MISSING_START_COMPONENT"
	CodeMultipleStartComponents  Code = "MULTIPLE_START_COMPONENTS"
	CodeMissingEndComponent      Code = "MISSING_END_COMPONENT"
	CodeDuplicateComponentID     Code = "DUPLICATE_COMPONENT_ID"
	CodeDuplicateConnectionID    Code = "DUPLICATE_CONNECTION_ID"
	CodeBlankComponentID         Code = "BLANK_COMPONENT_ID"
	CodeBlankComponentName       Code = "BLANK_COMPONENT_NAME"
	CodeMissingServiceProperty   Code = "MISSING_SERVICE_PROPERTY"
	CodeMissingMethodProperty    Code = "MISSING_METHOD_PROPERTY"
	CodeMissingConditionProperty Code = "MISSING_CONDITION_PROPERTY"

	// Validator connection errors.
	CodeInvalidSourceComponent Code = "INVALID_SOURCE_COMPONENT"
	CodeInvalidTargetComponent Code = "INVALID_TARGET_COMPONENT"
	CodeInvalidSourcePort      Code = "INVALID_SOURCE_PORT"
	CodeInvalidTargetPort      Code = "INVALID_TARGET_PORT"
	CodeSelfConnection         Code = "SELF_CONNECTION"
	CodeIncompatiblePortTypes  Code = "INCOMPATIBLE_PORT_TYPES"

	// Validator graph errors.
	CodeCycleDetected Code = "CYCLE_DETECTED"

	// Validator warnings (non-fatal).
	CodeOrphanComponent           Code = "ORPHAN_COMPONENT"
	CodeUnreachableEndComponent   Code = "UNREACHABLE_END_COMPONENT"
	CodeRequiredPortNotConnected  Code = "REQUIRED_PORT_NOT_CONNECTED"

	// Executor.
	CodeInvalidGraph             Code = "INVALID_GRAPH"
	CodeUnexpectedTermination    Code = "UNEXPECTED_TERMINATION"
	CodeComponentExecutionError  Code = "COMPONENT_EXECUTION_ERROR"
	CodeExecutionError           Code = "EXECUTION_ERROR"
)

// Error is the engine's single error type. Path identifies the location of
// the failure in the source document (e.g. "flow.components[3].id") and is
// empty when the failure has no natural document location.
type Error struct {
	Code    Code
	Message string
	Path    string
	Cause   error
	Context map[string]interface{}
}

// New constructs an Error with no path or cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf constructs an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap constructs an Error that carries cause as its underlying error.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WithPath returns a copy of e tagged with a document path.
func (e *Error) WithPath(path string) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Path = path
	return &clone
}

// WithContext returns a copy of e with an additional context key/value
// attached. Existing keys are preserved; ctx is not mutated.
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	next := make(map[string]interface{}, len(e.Context)+1)
	for k, v := range e.Context {
		next[k] = v
	}
	next[key] = value
	clone.Context = next
	return &clone
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Code))
	if e.Path != "" {
		b.WriteString(" at ")
		b.WriteString(e.Path)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(" (")
		b.WriteString(e.Cause.Error())
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is reports whether target shares this error's Code, matching Go's
// errors.Is protocol so callers can write errors.Is(err, flowerr.New(CodeX, "")).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// CodeOf extracts the Code from err, walking the Unwrap chain. Returns ""
// if err is nil or carries no *Error in its chain.
func CodeOf(err error) Code {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// MultiError collects the loader's/validator's full error set so that
// independent failures can be reported together rather than one at a time.
type MultiError struct {
	Errors []*Error
}

func (m *MultiError) Add(err *Error) {
	if err == nil {
		return
	}
	m.Errors = append(m.Errors, err)
}

func (m *MultiError) HasErrors() bool {
	return m != nil && len(m.Errors) > 0
}

func (m *MultiError) Error() string {
	if m == nil || len(m.Errors) == 0 {
		return "no errors"
	}
	parts := make([]string, 0, len(m.Errors))
	for _, e := range m.Errors {
		parts = append(parts, e.Error())
	}
	return fmt.Sprintf("%d error(s): %s", len(m.Errors), strings.Join(parts, "; "))
}

// AsError returns m as an error, or nil when m carries no errors — so
// callers can `return result, multi.AsError()` without an extra nil check.
func (m *MultiError) AsError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

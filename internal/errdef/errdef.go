// Package errdef defines the coded errors bootgen reports. Each code names a
// failure class of a generation run; callers branch on codes with Is instead
// of matching messages.
package errdef

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeUnknown                 Code = "unknown"
	CodeInvalidConfiguration    Code = "invalid_configuration"
	CodeTemplateNotFound        Code = "template_not_found"
	CodeMissingRequiredTemplate Code = "missing_required_template"
	CodeUnresolvedPlaceholder   Code = "unresolved_placeholder"
	CodeTemplateSyntax          Code = "template_syntax"
	CodeInvalidOutput           Code = "invalid_output"
	CodeGenerationFailed        Code = "generation_failed"
	CodeState                   Code = "state"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap annotates an existing error with a code and optional message,
// returning nil when the original error is nil.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: ensureCode(code), Message: msg, Err: err}
}

// New creates a formatted error with the supplied code.
func New(code Code, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: ensureCode(code), Message: msg}
}

// CodeOf returns the outermost code carried by err.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Is reports whether any error in the chain carries the target code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

func ensureCode(code Code) Code {
	if code == "" {
		return CodeUnknown
	}
	return code
}

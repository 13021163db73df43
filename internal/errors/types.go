// Package errors defines the structured error taxonomy shared by the
// resolver, the bundle registry and the CLI.
//
// Two kinds cross the library boundary: configuration errors, raised once
// when a loader is constructed, and not-found errors, raised per lookup.
// Both are *LoaderError values and can be matched with errors.Is against
// ErrConfiguration and ErrTemplateNotFound.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeTemplateNotFound  = "ERR_TEMPLATE_NOT_FOUND"
	ErrCodeContainerNotFound = "ERR_CONTAINER_NOT_FOUND"
	ErrCodeConfigInvalid     = "ERR_CONFIG_INVALID"
	ErrCodeRootUnresolvable  = "ERR_ROOT_UNRESOLVABLE"
	ErrCodeUnknownEncoding   = "ERR_UNKNOWN_ENCODING"
	ErrCodeInvalidIdentifier = "ERR_INVALID_IDENTIFIER"
	ErrCodeManifestInvalid   = "ERR_MANIFEST_INVALID"
	ErrCodeArchiveOpen       = "ERR_ARCHIVE_OPEN"
	ErrCodeTemplateParse     = "ERR_TEMPLATE_PARSE"
	ErrCodeDataRead          = "ERR_DATA_READ"
	ErrCodeDataParse         = "ERR_DATA_PARSE"
	ErrCodeInternalError     = "ERR_INTERNAL"
)

// Sentinels for errors.Is. Matching compares Type and Code only.
var (
	ErrTemplateNotFound = &LoaderError{Type: ErrorTypeNotFound, Code: ErrCodeTemplateNotFound}
	ErrConfiguration    = &LoaderError{Type: ErrorTypeConfig, Code: ErrCodeConfigInvalid}
)

// LoaderError is a structured error type with context.
type LoaderError struct {
	Type    ErrorType
	Code    string
	Message string
	Cause   error
	Context map[string]interface{}

	// Template is the name the caller asked for, when the error is about one.
	Template string
	// Reason is an optional human readable diagnostic.
	Reason string

	Recoverable bool
}

// Error implements the error interface.
func (e *LoaderError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Template != "" {
		parts = append(parts, "template:"+e.Template)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Reason != "" {
		result += " (" + e.Reason + ")"
	}

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *LoaderError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison. Configuration errors of any code match
// ErrConfiguration.
func (e *LoaderError) Is(target error) bool {
	var t *LoaderError
	if !errors.As(target, &t) {
		return false
	}

	if t == ErrConfiguration {
		return e.Type == ErrorTypeConfig
	}

	return e.Type == t.Type && e.Code == t.Code
}

// WithContext adds context information to the error.
func (e *LoaderError) WithContext(key string, value interface{}) *LoaderError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// NewConfigurationError creates a configuration error. Configuration
// errors are fatal to whatever was being constructed.
func NewConfigurationError(code, message string, cause error) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewNotFoundError creates the error reported when no lookup tier located a
// template. Callers treat it as "template does not exist".
func NewNotFoundError(template, reason string, cause error) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeNotFound,
		Code:        ErrCodeTemplateNotFound,
		Message:     "template not found",
		Template:    template,
		Reason:      reason,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *LoaderError {
	return &LoaderError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// IsNotFound reports whether err means a template does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}

// IsConfigurationError reports whether err came from invalid configuration.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

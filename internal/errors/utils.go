package errors

import "errors"

// Wrap wraps an error with additional context, creating a LoaderError if the input is not already one
func Wrap(err error, errType ErrorType, code, message string) *LoaderError {
	if err == nil {
		return nil
	}

	// Keep the template name and context of an inner LoaderError
	var le *LoaderError
	if errors.As(err, &le) {
		return &LoaderError{
			Type:        errType,
			Code:        code,
			Message:     message,
			Cause:       le,
			Context:     le.Context,
			Template:    le.Template,
			Recoverable: le.Recoverable,
		}
	}

	return &LoaderError{
		Type:        errType,
		Code:        code,
		Message:     message,
		Cause:       err,
		Recoverable: errType == ErrorTypeValidation || errType == ErrorTypeNotFound,
	}
}

// WrapConfig wraps an error as a configuration error
func WrapConfig(err error, code, message string) *LoaderError {
	le := Wrap(err, ErrorTypeConfig, code, message)
	if le != nil {
		le.Recoverable = false
	}
	return le
}

// WrapIO wraps an error as an I/O error
func WrapIO(err error, code, message string) *LoaderError {
	le := Wrap(err, ErrorTypeIO, code, message)
	if le != nil {
		le.Recoverable = false
	}
	return le
}

// FormatError formats an error for user display
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ee *EnhancedError
	if errors.As(err, &ee) {
		return ee.Error()
	}

	return err.Error()
}

// GetErrorContext extracts context information from a LoaderError
func GetErrorContext(err error) map[string]interface{} {
	var le *LoaderError
	if errors.As(err, &le) {
		context := make(map[string]interface{})
		for k, v := range le.Context {
			context[k] = v
		}
		if le.Template != "" {
			context["template"] = le.Template
		}
		if le.Reason != "" {
			context["reason"] = le.Reason
		}
		context["type"] = string(le.Type)
		context["code"] = le.Code
		context["recoverable"] = le.Recoverable
		return context
	}

	return map[string]interface{}{
		"message": err.Error(),
		"type":    "unknown",
	}
}

// ExtractCause extracts the root cause from a wrapped error
func ExtractCause(err error) error {
	for err != nil {
		var le *LoaderError
		if !errors.As(err, &le) {
			return err
		}
		if le.Cause == nil {
			return le
		}
		err = le.Cause
	}
	return nil
}

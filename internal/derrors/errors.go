// Package derrors provides typed errors for doxide.
// Each error carries a stable code so callers (and editor integrations
// reading the CLI output) can tell failure classes apart.
package derrors

import (
	"fmt"
)

// DoxideError is the base interface for all doxide errors
type DoxideError interface {
	error
	// Code returns a unique error code for programmatic error handling
	Code() string
}

type baseError struct {
	code    string
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *baseError) Code() string {
	return e.code
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ConfigurationError represents errors in configuration files
type ConfigurationError struct {
	baseError
	Path string
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(path string, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		baseError: baseError{code: "CONFIG_ERROR", message: message, cause: cause},
		Path:      path,
	}
}

// CredentialsError is returned when the completion API cannot be called
// because no API key is configured.
type CredentialsError struct {
	baseError
	Provider string
}

// NewCredentialsError creates a new credentials error
func NewCredentialsError(provider string, message string) *CredentialsError {
	return &CredentialsError{
		baseError: baseError{code: "CREDENTIALS_ERROR", message: message},
		Provider:  provider,
	}
}

// CompletionError wraps failures of the completion API
type CompletionError struct {
	baseError
	Model string
}

// NewCompletionError creates a new completion error
func NewCompletionError(model string, message string, cause error) *CompletionError {
	return &CompletionError{
		baseError: baseError{code: "COMPLETION_ERROR", message: message, cause: cause},
		Model:     model,
	}
}

// NoFunctionError is returned when there is no function text to document
type NoFunctionError struct {
	baseError
	Path string
	Line int
}

// NewNoFunctionError creates a new no-function error
func NewNoFunctionError(path string, line int) *NoFunctionError {
	msg := "no function found. Please make sure that your cursor is either within a function or is selecting a function"
	if path != "" {
		msg = fmt.Sprintf("no function found at %s:%d", path, line+1)
	}
	return &NoFunctionError{
		baseError: baseError{code: "NO_FUNCTION", message: msg},
		Path:      path,
		Line:      line,
	}
}

// ValidationError represents errors during validation
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new validation error
func NewValidationError(field string, message string, cause error) *ValidationError {
	return &ValidationError{
		baseError: baseError{code: "VALIDATION_ERROR", message: message, cause: cause},
		Field:     field,
	}
}

// NotFoundError represents errors when a resource is not found
type NotFoundError struct {
	baseError
	Resource string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, message string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{code: "NOT_FOUND", message: message},
		Resource:  resource,
	}
}

// AlreadyExistsError represents errors when a resource already exists
type AlreadyExistsError struct {
	baseError
	Resource string
}

// NewAlreadyExistsError creates a new already exists error
func NewAlreadyExistsError(resource string, message string) *AlreadyExistsError {
	return &AlreadyExistsError{
		baseError: baseError{code: "ALREADY_EXISTS", message: message},
		Resource:  resource,
	}
}

// CacheError represents errors in the alternatives store
type CacheError struct {
	baseError
	Path string
}

// NewCacheError creates a new cache error
func NewCacheError(path string, message string, cause error) *CacheError {
	return &CacheError{
		baseError: baseError{code: "CACHE_ERROR", message: message, cause: cause},
		Path:      path,
	}
}

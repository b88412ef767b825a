package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a domain error.
type ErrorType string

const (
	// ErrorTypeValidation indicates invalid caller input.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeNotFound indicates the requested entity does not exist upstream.
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeAmbiguousMatch indicates a name lookup returned more than one entity.
	ErrorTypeAmbiguousMatch ErrorType = "AMBIGUOUS_MATCH"

	// ErrorTypeNoMatchingDatasource indicates none of the device datasources are
	// on the configured allow-list.
	ErrorTypeNoMatchingDatasource ErrorType = "NO_MATCHING_DATASOURCE"

	// ErrorTypeInvalidTimeFormat indicates a suppression window timestamp could
	// not be parsed.
	ErrorTypeInvalidTimeFormat ErrorType = "INVALID_TIME_FORMAT"

	// ErrorTypeFetch indicates a transport or HTTP-level failure talking to an
	// upstream API.
	ErrorTypeFetch ErrorType = "FETCH"

	// ErrorTypeInvalidResponse indicates an upstream payload that could not be
	// parsed or is missing required fields.
	ErrorTypeInvalidResponse ErrorType = "INVALID_RESPONSE"

	// ErrorTypeUpstream indicates the upstream API reported a logical failure
	// despite a successful HTTP exchange.
	ErrorTypeUpstream ErrorType = "UPSTREAM"

	// ErrorTypeCredential indicates credentials could not be obtained. There is
	// no fallback source.
	ErrorTypeCredential ErrorType = "CREDENTIAL"
)

// DomainError is the error type shared by all layers. Expected business
// conditions (not found, ambiguous, ...) and infrastructure faults use the
// same shape and are told apart by Type.
type DomainError struct {
	Type    ErrorType
	Message string
	Detail  string
	Cause   error
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches two domain errors by type.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// Constructors

// NewValidationError creates a caller-input validation error.
func NewValidationError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Cause: cause}
}

// NewNotFoundError creates a not-found error.
func NewNotFoundError(message string) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message}
}

// NewAmbiguousMatchError creates an ambiguous-match error.
func NewAmbiguousMatchError(message string) *DomainError {
	return &DomainError{Type: ErrorTypeAmbiguousMatch, Message: message}
}

// NewNoMatchingDatasourceError creates an error for devices without any
// allow-listed datasource.
func NewNoMatchingDatasourceError(message string) *DomainError {
	return &DomainError{Type: ErrorTypeNoMatchingDatasource, Message: message}
}

// NewInvalidTimeFormatError creates a timestamp parsing error.
func NewInvalidTimeFormatError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeInvalidTimeFormat, Message: message, Cause: cause}
}

// NewFetchError creates a transport/HTTP failure error.
func NewFetchError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeFetch, Message: message, Cause: cause}
}

// NewFetchErrorWithDetail creates a transport/HTTP failure error carrying the
// raw upstream body for diagnosis.
func NewFetchErrorWithDetail(message, detail string) *DomainError {
	return &DomainError{Type: ErrorTypeFetch, Message: message, Detail: detail}
}

// NewInvalidResponseError creates a malformed-upstream-payload error.
func NewInvalidResponseError(message, detail string) *DomainError {
	return &DomainError{Type: ErrorTypeInvalidResponse, Message: message, Detail: detail}
}

// NewUpstreamError creates an upstream-reported logical failure error.
func NewUpstreamError(message, detail string) *DomainError {
	return &DomainError{Type: ErrorTypeUpstream, Message: message, Detail: detail}
}

// NewCredentialError creates a credential retrieval error.
func NewCredentialError(message string, cause error) *DomainError {
	return &DomainError{Type: ErrorTypeCredential, Message: message, Cause: cause}
}

// Type predicates

// IsValidationError reports whether err is a validation error.
func IsValidationError(err error) bool { return isType(err, ErrorTypeValidation) }

// IsNotFoundError reports whether err is a not-found error.
func IsNotFoundError(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsAmbiguousMatchError reports whether err is an ambiguous-match error.
func IsAmbiguousMatchError(err error) bool { return isType(err, ErrorTypeAmbiguousMatch) }

// IsNoMatchingDatasourceError reports whether err is a no-matching-datasource error.
func IsNoMatchingDatasourceError(err error) bool { return isType(err, ErrorTypeNoMatchingDatasource) }

// IsInvalidTimeFormatError reports whether err is a time parsing error.
func IsInvalidTimeFormatError(err error) bool { return isType(err, ErrorTypeInvalidTimeFormat) }

// IsFetchError reports whether err is a transport/HTTP failure.
func IsFetchError(err error) bool { return isType(err, ErrorTypeFetch) }

// IsInvalidResponseError reports whether err is a malformed-payload error.
func IsInvalidResponseError(err error) bool { return isType(err, ErrorTypeInvalidResponse) }

// IsUpstreamError reports whether err is an upstream logical failure.
func IsUpstreamError(err error) bool { return isType(err, ErrorTypeUpstream) }

// IsCredentialError reports whether err is a credential failure.
func IsCredentialError(err error) bool { return isType(err, ErrorTypeCredential) }

func isType(err error, t ErrorType) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type == t
	}
	return false
}

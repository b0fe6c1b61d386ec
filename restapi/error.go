/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package restapi

// Error represents error details in a response body.
type Error struct {
	Domain  string                 `json:"domain"`
	Code    string                 `json:"code"`
	Message string                 `json:"message,omitempty"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error codes.
// We are using "var" here because some services may want to use different error codes.
var (
	ErrCodeInternal         = "internalError"
	ErrCodeNotFound         = "notFound"
	ErrCodeMethodNotAllowed = "methodNotAllowed"
	ErrCodeInvalidArgument  = "invalidArgument"
	ErrCodeTooManyRequests  = "tooManyRequests"
	ErrCodeTooLargeBody     = "requestBodyTooLarge"
)

// Error messages.
// We are using "var" here because some services may want to use different error messages.
var (
	ErrMessageInternal         = "Internal error."
	ErrMessageNotFound         = "Not found."
	ErrMessageMethodNotAllowed = "Method not allowed."
	ErrMessageTooManyRequests  = "Too many requests."
)

// NewError creates a new Error with specified params.
func NewError(domain, code, message string) *Error {
	return &Error{Domain: domain, Code: code, Message: message}
}

// NewInternalError creates a new internal error with specified domain.
func NewInternalError(domain string) *Error {
	return NewError(domain, ErrCodeInternal, ErrMessageInternal)
}

// NewTooManyRequestsError creates a new error for responses rejected by the rate limiter.
func NewTooManyRequestsError(domain string) *Error {
	return NewError(domain, ErrCodeTooManyRequests, ErrMessageTooManyRequests)
}

// NewTooLargeBodyError creates a new error for requests with a too large body.
func NewTooLargeBodyError(domain string, maxSizeBytes uint64) *Error {
	return NewError(domain, ErrCodeTooLargeBody, "Request body is too large.").
		AddContext("maxSizeBytes", maxSizeBytes)
}

// NewInvalidArgumentError creates a new error for requests with malformed parameters.
func NewInvalidArgumentError(domain, message string) *Error {
	return NewError(domain, ErrCodeInvalidArgument, message)
}

// AddContext adds value to error context.
func (e *Error) AddContext(field string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[field] = value
	return e
}

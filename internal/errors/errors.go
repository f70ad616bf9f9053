package errors

import (
	"net/http"
)

// ArchiveError represents a structured error with HTTP context
type ArchiveError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Context    map[string]interface{} `json:"context,omitempty"`
	Fields     []FieldError           `json:"errors,omitempty"`
	Cause      error                  `json:"-"`
	HTTPStatus int                    `json:"-"`
}

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ArchiveError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}

// Error codes used across modules
const (
	CodeNotFound       = "NOT_FOUND"
	CodeValidation     = "VALIDATION_ERROR"
	CodeBadParameter   = "BAD_PARAMETER"
	CodeConflict       = "CONFLICT"
	CodeDatabase       = "DATABASE_ERROR"
	CodeNotProvisioned = "NOT_PROVISIONED"
	CodeNotConfigured  = "NOT_CONFIGURED"
	CodeUpstreamAuth   = "UPSTREAM_AUTH"
	CodeUpstreamQuota  = "UPSTREAM_QUOTA"
	CodeUpstream       = "UPSTREAM_ERROR"
	CodeInternal       = "INTERNAL_ERROR"
)

// Common error constructors

// NewNotFoundError reports a missing row looked up by primary key
func NewNotFoundError(resource string, id interface{}) *ArchiveError {
	return &ArchiveError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
		Context:    map[string]interface{}{"resource": resource, "id": id},
	}
}

// NewValidationError reports a malformed request body (422)
func NewValidationError(message string, fields ...FieldError) *ArchiveError {
	return &ArchiveError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Fields:     fields,
	}
}

// NewBadParameterError reports a malformed path or query parameter (400)
func NewBadParameterError(param, message string) *ArchiveError {
	return &ArchiveError{
		Code:       CodeBadParameter,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Context:    map[string]interface{}{"parameter": param},
	}
}

// NewConflictError reports a unique-constraint violation
func NewConflictError(resource, detail string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:       CodeConflict,
		Message:    detail,
		HTTPStatus: http.StatusConflict,
		Context:    map[string]interface{}{"resource": resource},
		Cause:      cause,
	}
}

// NewDatabaseError wraps an unexpected persistence failure
func NewDatabaseError(operation string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:       CodeDatabase,
		Message:    "database operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Context:    map[string]interface{}{"operation": operation},
		Cause:      cause,
	}
}

// NewNotProvisionedError reports a missing backing view or procedure.
// The message names the missing object and how to create it so an operator
// can tell this apart from a generic database failure.
func NewNotProvisionedError(object string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:       CodeNotProvisioned,
		Message:    "database object " + object + " has not been provisioned; run POST /api/admin/provision or apply the schema DDL",
		HTTPStatus: http.StatusInternalServerError,
		Context:    map[string]interface{}{"object": object},
		Cause:      cause,
	}
}

// NewNotConfiguredError reports a feature disabled by missing configuration
func NewNotConfiguredError(feature, remedy string) *ArchiveError {
	return &ArchiveError{
		Code:       CodeNotConfigured,
		Message:    feature + " is not configured: " + remedy,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// NewUpstreamAuthError reports rejected credentials from an external API
func NewUpstreamAuthError(service string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:       CodeUpstreamAuth,
		Message:    service + " rejected the configured API credential; verify the key is valid and has not been revoked",
		HTTPStatus: http.StatusUnauthorized,
		Cause:      cause,
	}
}

// NewUpstreamQuotaError reports an exhausted quota on an external API
func NewUpstreamQuotaError(service string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:       CodeUpstreamQuota,
		Message:    service + " quota exceeded; check the account's usage limits and billing status before retrying",
		HTTPStatus: http.StatusTooManyRequests,
		Cause:      cause,
	}
}

// NewUpstreamError wraps any other external API failure
func NewUpstreamError(service string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:       CodeUpstream,
		Message:    service + " request failed",
		HTTPStatus: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewInternalError wraps an unexpected failure
func NewInternalError(message string, cause error) *ArchiveError {
	return &ArchiveError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

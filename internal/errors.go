package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeConfig       ErrorType = "CONFIGURATION_ERROR"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeInvalidBudget    ErrorCode = "INVALID_BUDGET"
	ErrCodeSummaryRequired  ErrorCode = "SUMMARY_REQUIRED"
	ErrCodeDateOrder        ErrorCode = "COMPLETION_BEFORE_START"

	ErrCodeCampaignNotFound  ErrorCode = "CAMPAIGN_NOT_FOUND"
	ErrCodeIllegalTransition ErrorCode = "ILLEGAL_STATUS_TRANSITION"
	ErrCodeStaleVersion      ErrorCode = "STALE_VERSION"

	ErrCodeReadOnlyObserver  ErrorCode = "READ_ONLY_OBSERVER"
	ErrCodeForeignDepartment ErrorCode = "FOREIGN_DEPARTMENT"
	ErrCodeNotOwner          ErrorCode = "NOT_OWNER"
	ErrCodeAdminRequired     ErrorCode = "ADMIN_REQUIRED"

	ErrCodeInfluencerNotFound ErrorCode = "INFLUENCER_NOT_FOUND"
	ErrCodeInvalidPAN         ErrorCode = "INVALID_PAN"
	ErrCodePANTaken           ErrorCode = "PAN_ALREADY_REGISTERED"
	ErrCodeInvalidMobile      ErrorCode = "INVALID_MOBILE"

	ErrCodeDepartmentNotFound ErrorCode = "DEPARTMENT_NOT_FOUND"
	ErrCodeDepartmentInUse    ErrorCode = "DEPARTMENT_IN_USE"
	ErrCodeDuplicateName      ErrorCode = "DUPLICATE_NAME"
	ErrCodeUnknownDepartment  ErrorCode = "UNKNOWN_DEPARTMENT"
	ErrCodeMissingDepartment  ErrorCode = "MANAGER_WITHOUT_DEPARTMENT"

	ErrCodeUserNotFound   ErrorCode = "USER_NOT_FOUND"
	ErrCodeDuplicateEmail ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeInvalidRole    ErrorCode = "INVALID_ROLE"

	ErrCodeRequestNotFound  ErrorCode = "ACCESS_REQUEST_NOT_FOUND"
	ErrCodeDuplicateRequest ErrorCode = "DUPLICATE_PENDING_REQUEST"
	ErrCodeIllegalResolve   ErrorCode = "ILLEGAL_REQUEST_RESOLUTION"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Join() string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return strings.Join(messages, "; ")
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// NewConfigError marks a misconfiguration surfaced by a specific operation,
// e.g. a manager logging in without an assigned department.
func NewConfigError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConfig,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrCampaignNotFound      = NewNotFoundError("campaign not found", ErrCodeCampaignNotFound)
	ErrIllegalTransition     = NewValidationError("status transition is not allowed from the current status", ErrCodeIllegalTransition)
	ErrSummaryRequired       = NewValidationError("a justification summary is required for a status change", ErrCodeSummaryRequired)
	ErrCompletionBeforeStart = NewValidationError("completion date cannot be earlier than the campaign start date", ErrCodeDateOrder)
	ErrStaleVersion          = NewConflictError("campaign was modified by someone else, re-fetch and retry", ErrCodeStaleVersion)

	ErrReadOnlyObserver  = NewForbiddenError("read-only: observer mode", ErrCodeReadOnlyObserver)
	ErrForeignDepartment = NewForbiddenError("read-only: campaign is owned by another department", ErrCodeForeignDepartment)
	ErrNotOwner          = NewForbiddenError("only the creator may modify this record", ErrCodeNotOwner)
	ErrAdminRequired     = NewForbiddenError("admin access required", ErrCodeAdminRequired)

	ErrInfluencerNotFound = NewNotFoundError("influencer not found", ErrCodeInfluencerNotFound)
	ErrInvalidPAN         = NewValidationError("invalid PAN format (e.g., ABCDE1234F)", ErrCodeInvalidPAN)
	ErrPANTaken           = NewConflictError("an influencer is already registered with this PAN", ErrCodePANTaken)

	ErrDepartmentNotFound       = NewNotFoundError("department not found", ErrCodeDepartmentNotFound)
	ErrUnknownDepartment        = NewValidationError("department does not exist", ErrCodeUnknownDepartment)
	ErrManagerNeedsDepartment   = NewConfigError("manager has no department assigned, contact an admin", ErrCodeMissingDepartment)
	ErrRequesterNeedsDepartment = NewConfigError("your account has no department assigned, contact an admin", ErrCodeMissingDepartment)

	ErrUserNotFound   = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrDuplicateEmail = NewConflictError("a user with this email already exists", ErrCodeDuplicateEmail)
	ErrInvalidRole    = NewValidationError("role must be one of manager, executive, admin, super_admin", ErrCodeInvalidRole)

	ErrRequestNotFound  = NewNotFoundError("access request not found", ErrCodeRequestNotFound)
	ErrDuplicateRequest = NewConflictError("an access request for this influencer is already pending", ErrCodeDuplicateRequest)
	ErrIllegalResolve   = NewValidationError("request cannot be resolved from its current status", ErrCodeIllegalResolve)

	ErrInvalidCredentials = NewUnauthorizedError("invalid email or password", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

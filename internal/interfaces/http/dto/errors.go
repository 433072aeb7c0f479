package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidImage is used when a recipe image cannot be decoded
	ErrCodeInvalidImage = "ERR_INVALID_IMAGE"
	// ErrCodeDuplicateIngredient is used when a recipe lists an ingredient twice
	ErrCodeDuplicateIngredient = "ERR_DUPLICATE_INGREDIENT"
	// ErrCodeDuplicateTag is used when a recipe lists a tag twice
	ErrCodeDuplicateTag = "ERR_DUPLICATE_TAG"
	// ErrCodeSelfSubscription is used when a user tries to follow themselves
	ErrCodeSelfSubscription = "ERR_SELF_SUBSCRIPTION"
	// ErrCodePasswordUnchanged is used when set_password repeats the current password
	ErrCodePasswordUnchanged = "ERR_PASSWORD_UNCHANGED"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	// ErrCodeTokenRevoked is used when the token was revoked
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeBodyTooLarge is used when the request body exceeds the limit
	ErrCodeBodyTooLarge = "ERR_BODY_TOO_LARGE"
)

// Shopping-list error codes
const (
	// ErrCodeDataUnavailable is used when the cart could not be aggregated
	ErrCodeDataUnavailable = "ERR_DATA_UNAVAILABLE"
	// ErrCodeRenderResourceMissing is used when the PDF font cannot be loaded
	ErrCodeRenderResourceMissing = "ERR_RENDER_RESOURCE_MISSING"
	// ErrCodeRenderFailed is used when the PDF backend fails
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeInvalidImage:        http.StatusBadRequest,
	ErrCodeDuplicateIngredient: http.StatusBadRequest,
	ErrCodeDuplicateTag:        http.StatusBadRequest,
	ErrCodeSelfSubscription:    http.StatusBadRequest,
	ErrCodePasswordUnchanged:   http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeAlreadyExists: http.StatusConflict,
	ErrCodeConflict:      http.StatusConflict,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,

	ErrCodeDataUnavailable:       http.StatusInternalServerError,
	ErrCodeRenderResourceMissing: http.StatusInternalServerError,
	ErrCodeRenderFailed:          http.StatusInternalServerError,

	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unlisted ERR_INVALID_* codes are field validation failures and map to 400;
// anything else unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "ERR_INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes that do not follow the
// ERR_<NAME> convention directly
var DomainErrorCodeMapping = map[string]string{
	"VALIDATION_ERROR":        ErrCodeValidation,
	"INTERNAL_ERROR":          ErrCodeInternal,
	"PASSWORD_HASH_ERROR":     ErrCodeInternal,
	"RENDER_RESOURCE_MISSING": ErrCodeRenderResourceMissing,
	"RENDER_FAILED":           ErrCodeRenderFailed,
}

// NormalizeErrorCode converts a domain error code to the ERR_ format.
// Codes already prefixed with ERR_ are returned as-is.
func NormalizeErrorCode(code string) string {
	if newCode, ok := DomainErrorCodeMapping[code]; ok {
		return newCode
	}
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}

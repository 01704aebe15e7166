package apperrors

import "net/http"

type ErrorCode string

const (
	ErrCodeAuthenticationFailure ErrorCode = "authentication_error"
	ErrCodeForbidden             ErrorCode = "forbidden"
	ErrCodeInternalError         ErrorCode = "internal_error"
	ErrCodeInvalidRequest        ErrorCode = "invalid_request"
	ErrCodeMalformedBody         ErrorCode = "malformed_body"
	ErrCodeRateLimitExceeded     ErrorCode = "rate_limit_exceeded"
	ErrCodeRequestTooLarge       ErrorCode = "request_too_large"
	ErrCodeResourceNotFound      ErrorCode = "resource_not_found"
	ErrCodeUpstreamError         ErrorCode = "upstream_error"
	ErrCodeUpstreamUnavailable   ErrorCode = "upstream_unavailable"
)

// CodeForStatus maps the status of a failed API call (0 when no response was received) to an error code.
func CodeForStatus(status int) ErrorCode {
	switch {
	case status == 0 || status == http.StatusBadGateway:
		return ErrCodeUpstreamUnavailable
	case status == http.StatusUnauthorized:
		return ErrCodeAuthenticationFailure
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusNotFound:
		return ErrCodeResourceNotFound
	case status == http.StatusRequestEntityTooLarge:
		return ErrCodeRequestTooLarge
	case status == http.StatusTooManyRequests:
		return ErrCodeRateLimitExceeded
	case status >= 500:
		return ErrCodeUpstreamError
	default:
		return ErrCodeInvalidRequest
	}
}

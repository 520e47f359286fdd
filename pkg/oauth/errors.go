package oauth

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrMissingClientID is returned when the OAuth client ID is not provided.
	ErrMissingClientID = errors.New("oauth: missing client ID")

	// ErrMissingClientSecret is returned when the OAuth client secret is not provided.
	ErrMissingClientSecret = errors.New("oauth: missing client secret")

	// ErrMissingVerify is returned when a strategy is built without a verify callback.
	ErrMissingVerify = errors.New("oauth: missing verify callback")

	// ErrPKCERequiresState is returned when PKCE is enabled without a persistent state store.
	ErrPKCERequiresState = errors.New("oauth: PKCE requires a state store")

	// ErrStateMissing is returned when the callback carries no state
	// or the stored state cannot be found.
	ErrStateMissing = errors.New("oauth: unable to verify authorization request state")

	// ErrStateInvalid is returned when the callback state does not match the stored one.
	ErrStateInvalid = errors.New("oauth: invalid authorization request state")

	// ErrFetchFailed is returned when fetching data from the OAuth provider fails.
	ErrFetchFailed = errors.New("oauth: failed to fetch from provider")

	// ErrDecodeFailed is returned when decoding the OAuth provider response fails.
	ErrDecodeFailed = errors.New("oauth: failed to decode response")

	// ErrMissingAccessToken is returned when the token endpoint answers
	// without an access token.
	ErrMissingAccessToken = errors.New("oauth: missing access token")
)

// AuthorizationError represents a standard OAuth 2.0 error passed back
// to the callback URL via the error query parameter.
type AuthorizationError struct {
	Description string
	Code        string
	URI         string
	Status      int
}

// NewAuthorizationError builds an AuthorizationError, deriving the HTTP status
// from the OAuth error code.
func NewAuthorizationError(description, code, uri string) *AuthorizationError {
	status := http.StatusInternalServerError
	switch code {
	case "access_denied":
		status = http.StatusForbidden
	case "server_error":
		status = http.StatusBadGateway
	case "temporarily_unavailable":
		status = http.StatusServiceUnavailable
	}
	return &AuthorizationError{
		Description: description,
		Code:        code,
		URI:         uri,
		Status:      status,
	}
}

func (e *AuthorizationError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// StatusCode returns the HTTP status associated with the error.
func (e *AuthorizationError) StatusCode() int { return e.Status }

// TokenError represents a standard OAuth 2.0 error body returned by the token endpoint.
type TokenError struct {
	Description string
	Code        string
	URI         string
	Status      int
}

func (e *TokenError) Error() string {
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// StatusCode returns the HTTP status associated with the error.
func (e *TokenError) StatusCode() int { return e.Status }

// InternalError wraps a failure that does not match any provider-specific
// error shape: transport failures, unexpected bodies and the like.
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError wraps err with a human readable message.
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{Message: message, Err: err}
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *InternalError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status associated with the error.
func (e *InternalError) StatusCode() int { return http.StatusInternalServerError }

// HTTPError is returned by Strategy.Get when the resource server
// answers with a non-2xx status. Data holds the raw response body.
type HTTPError struct {
	Data       []byte
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("oauth: request returned status %d", e.StatusCode)
}

// FailureError is returned from a VerifyFunc to reject the credentials
// without signalling an internal error.
type FailureError struct {
	Message string
}

// Fail builds a FailureError with the given message.
func Fail(message string) error {
	return &FailureError{Message: message}
}

func (e *FailureError) Error() string {
	if e.Message == "" {
		return "oauth: authentication failed"
	}
	return e.Message
}

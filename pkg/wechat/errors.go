package wechat

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// ErrProfileParse is returned when the profile endpoint answers with a body
// that is not a JSON object. Valid JSON of another kind ([], "x", 123) is
// rejected too, since no profile field can be read from it.
var ErrProfileParse = errors.New("wechat: failed to parse user profile")

// Discriminant names reported by Name.
const (
	AuthorizationErrorName = "WechatAuthorizationError"
	TokenErrorName         = "WechatTokenError"
	GraphAPIErrorName      = "WechatGraphAPIError"
)

// AuthorizationError is returned when WeChat redirects back with
// error_code/error_message instead of the standard OAuth 2.0 error parameter.
type AuthorizationError struct {
	Message string
	origin  string
	Code    int
}

// NewAuthorizationError records the call site as the error origin.
func NewAuthorizationError(message string, code int) *AuthorizationError {
	return &AuthorizationError{Message: message, Code: code, origin: callerOrigin()}
}

func (e *AuthorizationError) Error() string { return messageOr(e.Message, AuthorizationErrorName) }

// Name returns the error discriminant.
func (e *AuthorizationError) Name() string { return AuthorizationErrorName }

// StatusCode classifies the error as a server fault.
func (e *AuthorizationError) StatusCode() int { return http.StatusInternalServerError }

// Origin returns the file:line where the error was constructed.
func (e *AuthorizationError) Origin() string { return e.origin }

// TokenError is returned when the token endpoint answers with a structured
// error object instead of an access token.
type TokenError struct {
	Message string
	Type    string
	TraceID string
	origin  string
	Code    int
	Subcode int
}

// NewTokenError records the call site as the error origin.
func NewTokenError(message, typ string, code, subcode int, traceID string) *TokenError {
	return &TokenError{
		Message: message,
		Type:    typ,
		Code:    code,
		Subcode: subcode,
		TraceID: traceID,
		origin:  callerOrigin(),
	}
}

func (e *TokenError) Error() string { return messageOr(e.Message, TokenErrorName) }

// Name returns the error discriminant.
func (e *TokenError) Name() string { return TokenErrorName }

// StatusCode classifies the error as a server fault.
func (e *TokenError) StatusCode() int { return http.StatusInternalServerError }

// Origin returns the file:line where the error was constructed.
func (e *TokenError) Origin() string { return e.origin }

// GraphAPIError is returned when the profile endpoint answers with a
// structured error object instead of user data.
type GraphAPIError struct {
	Message string
	Type    string
	TraceID string
	origin  string
	Code    int
	Subcode int
}

// NewGraphAPIError records the call site as the error origin.
func NewGraphAPIError(message, typ string, code, subcode int, traceID string) *GraphAPIError {
	return &GraphAPIError{
		Message: message,
		Type:    typ,
		Code:    code,
		Subcode: subcode,
		TraceID: traceID,
		origin:  callerOrigin(),
	}
}

func (e *GraphAPIError) Error() string { return messageOr(e.Message, GraphAPIErrorName) }

// Name returns the error discriminant.
func (e *GraphAPIError) Name() string { return GraphAPIErrorName }

// StatusCode classifies the error as a server fault.
func (e *GraphAPIError) StatusCode() int { return http.StatusInternalServerError }

// Origin returns the file:line where the error was constructed.
func (e *GraphAPIError) Origin() string { return e.origin }

// apiErrorFields are the members of WeChat's {"error":{...}} body.
type apiErrorFields struct {
	message string
	typ     string
	traceID string
	code    int
	subcode int
}

// parseAPIError extracts the structured error object from body.
// ok is false when body is not JSON or has no "error" object.
//
// code and error_subcode are accepted as JSON numbers or numeric strings;
// anything else (fractions, objects) becomes 0. Non-string message, type and
// fbtrace_id values keep their JSON text.
func parseAPIError(body []byte) (apiErrorFields, bool) {
	m, err := decodeObject(body)
	if err != nil {
		return apiErrorFields{}, false
	}
	obj, ok := m["error"].(map[string]any)
	if !ok {
		return apiErrorFields{}, false
	}
	return apiErrorFields{
		message: textField(obj, "message"),
		typ:     textField(obj, "type"),
		code:    codeField(obj, "code"),
		subcode: codeField(obj, "error_subcode"),
		traceID: textField(obj, "fbtrace_id"),
	}, true
}

func textField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

func codeField(m map[string]any, key string) int {
	if s, ok := m[key].(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}
	return intField(m, key)
}

func messageOr(message, name string) string {
	if message != "" {
		return message
	}
	return name
}

// callerOrigin reports the caller of the error constructor.
func callerOrigin() string {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

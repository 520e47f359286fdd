package oauth

import (
	"encoding/json"
	"errors"
	"net/http"
)

// ParseErrorResponse is the default parser for token endpoint error bodies
// that follow RFC 6749 section 5.2. It returns a *TokenError when the body
// carries a string "error" member and nil when it does not.
// A body that is not JSON yields an error wrapping ErrDecodeFailed.
func ParseErrorResponse(body []byte, _ int) error {
	var payload struct {
		Error       json.RawMessage `json:"error"`
		Description string          `json:"error_description"`
		URI         string          `json:"error_uri"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return errors.Join(ErrDecodeFailed, err)
	}

	var code string
	if err := json.Unmarshal(payload.Error, &code); err != nil || code == "" {
		return nil
	}

	return &TokenError{
		Description: payload.Description,
		Code:        code,
		URI:         payload.URI,
		Status:      http.StatusInternalServerError,
	}
}

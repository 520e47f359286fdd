package oauth

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"
)

// DefaultStateTTL bounds how long an authorization request may stay pending.
const DefaultStateTTL = 10 * time.Minute

// StateMeta is the data persisted alongside the state parameter between
// the authorization redirect and the callback.
type StateMeta struct {
	CodeVerifier string `json:"v,omitempty"`
}

// StateStore persists the state parameter for CSRF protection.
type StateStore interface {
	// Store persists meta and returns the state value to send to the provider.
	// An empty state means no state parameter is sent.
	Store(w http.ResponseWriter, r *http.Request, meta StateMeta) (string, error)

	// Verify checks the state returned by the provider and returns the stored meta.
	// Returns ErrStateMissing or ErrStateInvalid when the check fails.
	Verify(w http.ResponseWriter, r *http.Request, state string) (StateMeta, error)
}

// NullStateStore sends no state and accepts every callback.
type NullStateStore struct{}

// Store implements StateStore.
func (NullStateStore) Store(http.ResponseWriter, *http.Request, StateMeta) (string, error) {
	return "", nil
}

// Verify implements StateStore.
func (NullStateStore) Verify(http.ResponseWriter, *http.Request, string) (StateMeta, error) {
	return StateMeta{}, nil
}

func newState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

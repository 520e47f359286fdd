// Package cookie writes and reads signed or encrypted cookies.
//
// It backs the cookie state store in pkg/oauth, where the pending
// authorization request (state, PKCE verifier, return URL) travels with the
// browser between the login redirect and the provider callback.
//
//	m, err := cookie.New(os.Getenv("STATE_SECRET"),
//		cookie.WithPath("/auth/wechat"),
//		cookie.WithSecure(true),
//	)
//	if err != nil {
//		return err
//	}
//
// Signed cookies stay readable by the client; HMAC-SHA256 detects tampering:
//
//	m.SetSigned(w, "oauth2_state", payload, 10*time.Minute)
//	payload, err := m.GetSigned(r, "oauth2_state")
//
// Encrypted cookies use AES-256-GCM with a key derived from the secret:
//
//	err := m.SetEncrypted(w, "oauth2_state", payload, 10*time.Minute)
//	payload, err := m.GetEncrypted(r, "oauth2_state")
//
// Defaults: Path "/", HttpOnly, SameSite=Lax. Reads report [ErrNotFound] for a
// missing cookie, [ErrBadSig] or [ErrDecrypt] for an altered one.
package cookie

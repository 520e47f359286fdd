package wechat

import (
	"encoding/json"
	"errors"
	"math"
)

// ProviderName is set on every profile returned by Strategy.UserProfile.
const ProviderName = "Wechat"

// Sex values reported by WeChat.
const (
	SexUnknown = 0
	SexMale    = 1
	SexFemale  = 2
)

// Profile is the normalized WeChat user profile.
// Fields missing from the provider payload keep their zero value.
type Profile struct {
	// JSON is the decoded response body.
	JSON     map[string]any
	Provider string
	OpenID   string
	Nickname string
	Province string
	City     string
	Country  string
	// HeadImgURL is the avatar URL.
	HeadImgURL string
	// UnionID identifies the user across all apps of the same WeChat Open Platform account.
	UnionID string
	// Raw is the response body as received.
	Raw string
	Sex int
}

// ParseProfile decodes a JSON user-info payload and normalizes it.
// Returns an error wrapping ErrProfileParse if data is not a JSON object.
func ParseProfile(data []byte) (*Profile, error) {
	m, err := decodeObject(data)
	if err != nil {
		return nil, errors.Join(ErrProfileParse, err)
	}
	return ProfileFromMap(m), nil
}

// ProfileFromMap normalizes an already decoded user-info payload.
// Values of an unexpected JSON type are ignored rather than converted.
func ProfileFromMap(m map[string]any) *Profile {
	return &Profile{
		OpenID:     stringField(m, "openid"),
		Nickname:   stringField(m, "nickname"),
		Sex:        intField(m, "sex"),
		Province:   stringField(m, "province"),
		City:       stringField(m, "city"),
		Country:    stringField(m, "country"),
		HeadImgURL: stringField(m, "headimgurl"),
		UnionID:    stringField(m, "unionid"),
	}
}

// ID returns the user's openid.
func (p *Profile) ID() string { return p.OpenID }

// DisplayName returns the user's nickname.
func (p *Profile) DisplayName() string { return p.Nickname }

// PhotoURL returns the avatar URL.
func (p *Profile) PhotoURL() string { return p.HeadImgURL }

// Gender maps Sex to "male" or "female"; unknown yields "".
func (p *Profile) Gender() string {
	switch p.Sex {
	case SexMale:
		return "male"
	case SexFemale:
		return "female"
	default:
		return ""
	}
}

func decodeObject(data []byte) (map[string]any, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// intField accepts integral JSON numbers only.
func intField(m map[string]any, key string) int {
	f, ok := m[key].(float64)
	if !ok || f != math.Trunc(f) {
		return 0
	}
	return int(f)
}

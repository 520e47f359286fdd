package wechat

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestProfileRequestURL(t *testing.T) {
	t.Parallel()

	token := (&oauth2.Token{AccessToken: "at"}).WithExtra(map[string]any{"openid": "o1"})

	t.Run("openid from token", func(t *testing.T) {
		t.Parallel()

		s := &Strategy{profileURL: DefaultProfileURL}
		got, err := s.profileRequestURL(token)
		require.NoError(t, err)
		require.Equal(t, DefaultProfileURL+"?openid=o1", got)
	})

	t.Run("existing openid kept", func(t *testing.T) {
		t.Parallel()

		s := &Strategy{profileURL: DefaultProfileURL + "?openid=fixed"}
		got, err := s.profileRequestURL(token)
		require.NoError(t, err)
		require.Equal(t, DefaultProfileURL+"?openid=fixed", got)
	})

	t.Run("fields keep commas", func(t *testing.T) {
		t.Parallel()

		s := &Strategy{profileURL: "https://api.test/me?lang=zh_CN", profileFields: []string{"name", "emails", "x y"}}
		got, err := s.profileRequestURL(&oauth2.Token{AccessToken: "at"})
		require.NoError(t, err)
		require.Equal(t, "https://api.test/me?lang=zh_CN&fields=last_name,first_name,middle_name,email,x+y", got)
	})

	t.Run("proof", func(t *testing.T) {
		t.Parallel()

		s := &Strategy{profileURL: "https://api.test/me", clientSecret: "secret", enableProof: true}
		got, err := s.profileRequestURL(&oauth2.Token{AccessToken: "at"})
		require.NoError(t, err)

		mac := hmac.New(sha256.New, []byte("secret"))
		mac.Write([]byte("at"))
		require.Equal(t, "https://api.test/me?appsecret_proof="+hex.EncodeToString(mac.Sum(nil)), got)
	})
}

func TestConvertProfileFields(t *testing.T) {
	t.Parallel()

	require.Empty(t, convertProfileFields(nil))
	require.Equal(t, "id,name", convertProfileFields([]string{"id", "displayName"}))
	require.Equal(t, "link,picture,unionid", convertProfileFields([]string{"profileUrl", "photos", "unionid"}))
}

func TestCodeField(t *testing.T) {
	t.Parallel()

	m := map[string]any{"num": float64(190), "str": "190", "frac": 1.5, "bad": "19x", "obj": map[string]any{}}
	require.Equal(t, 190, codeField(m, "num"))
	require.Equal(t, 190, codeField(m, "str"))
	require.Zero(t, codeField(m, "frac"))
	require.Zero(t, codeField(m, "bad"))
	require.Zero(t, codeField(m, "obj"))
	require.Zero(t, codeField(m, "missing"))
}

func TestParseCode(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"":        0,
		"abc":     0,
		"42":      42,
		" 7 ":     7,
		"200abc":  200,
		"-12":     -12,
		"+3":      3,
		"1349003": 1349003,

		"99999999999999999999":  math.MaxInt32,
		"-99999999999999999999": -math.MaxInt32,
		"2147483648":            math.MaxInt32,
	}
	for in, want := range tests {
		require.Equal(t, want, parseCode(in), in)
	}
}

package wechat

import (
	"slices"

	"github.com/caarlos0/env/v11"
)

// Default WeChat endpoints.
const (
	DefaultAuthorizationURL = "https://open.weixin.qq.com/connect/qrconnect"
	DefaultTokenURL         = "https://api.weixin.qq.com/sns/oauth2/access_token"
	DefaultProfileURL       = "https://api.weixin.qq.com/sns/userinfo"
	DefaultScopeSeparator   = ","
)

// Config holds WeChat OAuth configuration.
type Config struct {
	ClientID         string   `env:"WECHAT_CLIENT_ID,required,notEmpty"`
	ClientSecret     string   `env:"WECHAT_CLIENT_SECRET,required,notEmpty"`
	CallbackURL      string   `env:"WECHAT_CALLBACK_URL"`
	AuthorizationURL string   `env:"WECHAT_AUTHORIZATION_URL" envDefault:"https://open.weixin.qq.com/connect/qrconnect"`
	TokenURL         string   `env:"WECHAT_TOKEN_URL" envDefault:"https://api.weixin.qq.com/sns/oauth2/access_token"`
	ProfileURL       string   `env:"WECHAT_PROFILE_URL" envDefault:"https://api.weixin.qq.com/sns/userinfo"`
	ScopeSeparator   string   `env:"WECHAT_SCOPE_SEPARATOR" envDefault:","`
	Scope            []string `env:"WECHAT_SCOPE" envSeparator:","`
	// ProfileFields limits the profile request to the listed fields.
	// Normalized names (e.g. "displayName") are mapped to WeChat names.
	ProfileFields []string `env:"WECHAT_PROFILE_FIELDS" envSeparator:","`
	// EnableProof signs profile requests with appsecret_proof.
	EnableProof     bool `env:"WECHAT_ENABLE_PROOF"`
	SkipUserProfile bool `env:"WECHAT_SKIP_USER_PROFILE"`
	PKCE            bool `env:"WECHAT_PKCE"`
	TrustProxy      bool `env:"WECHAT_TRUST_PROXY"`
}

// ConfigFromEnv loads Config from WECHAT_* environment variables.
func ConfigFromEnv() (Config, error) {
	return env.ParseAs[Config]()
}

// withDefaults fills the endpoints and scope separator left empty.
func (c Config) withDefaults() Config {
	if c.AuthorizationURL == "" {
		c.AuthorizationURL = DefaultAuthorizationURL
	}
	if c.TokenURL == "" {
		c.TokenURL = DefaultTokenURL
	}
	if c.ProfileURL == "" {
		c.ProfileURL = DefaultProfileURL
	}
	if c.ScopeSeparator == "" {
		c.ScopeSeparator = DefaultScopeSeparator
	}
	c.Scope = slices.Clone(c.Scope)
	c.ProfileFields = slices.Clone(c.ProfileFields)
	return c
}

package providers

import (
	"github.com/dmitrijs2005/gophid/internal/server/identity"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type googleUserInfo struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified *bool  `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
}

// NewGoogle returns the Google provider. Google accounts are matched by the
// email it reports, so an email Google marks as unverified is dropped and the
// profile resolves as incomplete.
func NewGoogle(c Credentials, opts ...Option) Provider {
	p := &oauthProvider{
		name: identity.ProviderGoogle,
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "profile", "email"},
		},
		userInfoURL: googleUserInfoURL,
		decode: func(body []byte) (identity.FederatedProfile, error) {
			info, err := decodeJSON[googleUserInfo](body)
			if err != nil {
				return identity.FederatedProfile{}, err
			}
			email := info.Email
			if info.EmailVerified != nil && !*info.EmailVerified {
				email = ""
			}
			return identity.FederatedProfile{
				SubjectID:   info.Subject,
				Email:       email,
				DisplayName: info.GivenName,
				Username:    info.Name,
			}, nil
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

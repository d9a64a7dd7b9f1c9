package providers

import (
	"github.com/dmitrijs2005/gophid/internal/server/identity"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const facebookUserInfoURL = "https://graph.facebook.com/me?fields=id,name,email"

type facebookUserInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewFacebook returns the Facebook provider. Facebook accounts are matched by
// the numeric Graph id; the email is optional.
func NewFacebook(c Credentials, opts ...Option) Provider {
	p := &oauthProvider{
		name: identity.ProviderFacebook,
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoints.Facebook,
			Scopes:       []string{"public_profile", "email"},
		},
		userInfoURL: facebookUserInfoURL,
		decode: func(body []byte) (identity.FederatedProfile, error) {
			info, err := decodeJSON[facebookUserInfo](body)
			if err != nil {
				return identity.FederatedProfile{}, err
			}
			return identity.FederatedProfile{
				SubjectID:   info.ID,
				Email:       info.Email,
				DisplayName: info.Name,
			}, nil
		},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

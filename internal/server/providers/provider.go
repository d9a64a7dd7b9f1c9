// Package providers talks OAuth2 to the federated identity providers and
// normalizes what they return into identity.FederatedProfile values. It
// makes no account decisions; those belong to the identity resolver.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophid/internal/server/identity"
	"golang.org/x/oauth2"
)

// Provider is one configured OAuth2 identity provider.
type Provider interface {
	Name() identity.Provider

	// AuthCodeURL returns the consent page URL. verifier is the PKCE
	// verifier the caller keeps until ExchangeCode.
	AuthCodeURL(state, verifier string) string

	// ExchangeCode redeems the authorization code and fetches the profile.
	ExchangeCode(ctx context.Context, code, verifier string) (identity.FederatedProfile, error)
}

// Credentials is the per-provider client registration.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func (c Credentials) configured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RedirectURL != ""
}

type Option func(*oauthProvider)

// WithEndpoint overrides the provider's OAuth2 endpoint.
func WithEndpoint(ep oauth2.Endpoint) Option {
	return func(p *oauthProvider) { p.cfg.Endpoint = ep }
}

// WithUserInfoURL overrides where the profile document is fetched from.
func WithUserInfoURL(u string) Option {
	return func(p *oauthProvider) { p.userInfoURL = u }
}

// profileDecoder turns a userinfo document into a profile.
type profileDecoder func(body []byte) (identity.FederatedProfile, error)

type oauthProvider struct {
	name        identity.Provider
	cfg         *oauth2.Config
	userInfoURL string
	decode      profileDecoder
}

func (p *oauthProvider) Name() identity.Provider { return p.name }

func (p *oauthProvider) AuthCodeURL(state, verifier string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

func (p *oauthProvider) ExchangeCode(ctx context.Context, code, verifier string) (identity.FederatedProfile, error) {
	token, err := p.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return identity.FederatedProfile{}, fmt.Errorf("%s token exchange failed: %w", p.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return identity.FederatedProfile{}, err
	}

	resp, err := p.cfg.Client(ctx, token).Do(req)
	if err != nil {
		return identity.FederatedProfile{}, fmt.Errorf("%s userinfo request failed: %w", p.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return identity.FederatedProfile{}, fmt.Errorf("%s userinfo read failed: %w", p.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return identity.FederatedProfile{}, fmt.Errorf("%s userinfo returned %s", p.name, resp.Status)
	}

	profile, err := p.decode(body)
	if err != nil {
		return identity.FederatedProfile{}, fmt.Errorf("%s userinfo decode failed: %w", p.name, err)
	}
	profile.Provider = p.name
	return profile, nil
}

func decodeJSON[T any](body []byte) (T, error) {
	var v T
	err := json.Unmarshal(body, &v)
	return v, err
}

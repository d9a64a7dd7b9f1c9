package providers

import (
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/identity"
)

// Registry holds the configured providers by name.
type Registry struct {
	providers map[identity.Provider]Provider
}

func NewRegistry(list ...Provider) *Registry {
	m := make(map[identity.Provider]Provider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// NewRegistryFromCredentials registers only the providers whose client
// registration is complete.
func NewRegistryFromCredentials(google, facebook Credentials) *Registry {
	var list []Provider
	if google.configured() {
		list = append(list, NewGoogle(google))
	}
	if facebook.configured() {
		list = append(list, NewFacebook(facebook))
	}
	return NewRegistry(list...)
}

func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[identity.Provider(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", common.ErrUnknownProvider, name)
	}
	return p, nil
}

// Package identity resolves a proof of identity to exactly one canonical
// user record.
//
// A proof is either LocalCredentials (email + password) or a
// FederatedProfile delivered by an external provider after its own login
// flow. Local proofs only ever match existing accounts; federated proofs
// create the account on first sight.
package identity

import (
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/common"
)

type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// ParseProvider maps a provider name to its tag.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(name); p {
	case ProviderGoogle, ProviderFacebook:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnknownProvider, name)
	}
}

// Proof is implemented by LocalCredentials and FederatedProfile only.
type Proof interface {
	proof()
}

type LocalCredentials struct {
	Email    string
	Password string
}

// FederatedProfile carries the claims a provider vouched for. Google
// accounts are matched by Email, Facebook accounts by the numeric SubjectID.
type FederatedProfile struct {
	Provider    Provider
	SubjectID   string
	Email       string
	DisplayName string
	Username    string
}

func (LocalCredentials) proof() {}
func (FederatedProfile) proof() {}

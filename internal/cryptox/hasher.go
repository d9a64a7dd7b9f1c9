// Package cryptox holds the credential hasher, a salted and adaptive one-way
// transform for local account passwords, and AES-GCM sealing for values that
// leave the server but must stay opaque to their holder.
package cryptox

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// HashCost is the bcrypt work factor used for every stored digest.
const HashCost = 10

// MaxSecretLen is the longest plaintext bcrypt accepts, in bytes.
const MaxSecretLen = 72

// Hasher turns plaintext secrets into storable digests and checks them back.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) (bool, error)
}

// generateFromPassword is a seam for bcrypt.GenerateFromPassword so tests can
// simulate an entropy source failure.
var generateFromPassword = bcrypt.GenerateFromPassword

// BcryptHasher implements Hasher with bcrypt at HashCost.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using HashCost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: HashCost}
}

// Hash returns a bcrypt digest of plaintext. The salt is drawn per call, so
// hashing the same secret twice yields different digests.
//
// Any failure of the primitive (entropy, secret longer than 72 bytes) is
// reported as common.ErrHashingFailure.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	digest, err := generateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrHashingFailure, err)
	}
	return string(digest), nil
}

// Verify recomputes the digest of plaintext with the salt embedded in digest
// and compares in constant time. A plain mismatch is (false, nil); a digest
// bcrypt cannot parse is common.ErrHashingFailure.
func (h *BcryptHasher) Verify(plaintext, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("%w: %v", common.ErrHashingFailure, err)
}

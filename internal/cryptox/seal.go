package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/argon2"
)

// ErrMalformedSealed is returned by Open for input that is not a sealed box
// produced under the given key.
var ErrMalformedSealed = errors.New("malformed sealed value")

const nonceSize = 12

// DeriveKey stretches secret into a 32-byte AES-256 key with Argon2id. The
// same secret and salt always yield the same key.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, 1, 64*1024, 4, 32)
}

// Seal encrypts plaintext with AES-GCM under key and returns the nonce
// followed by the ciphertext, base64url encoded without padding.
//
// The key must be 16, 24 or 32 bytes. A fresh random nonce is drawn for
// every call, so sealing the same plaintext twice gives different output.
func Seal(plaintext string, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	box := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// Open reverses Seal. Tampered input, input sealed under another key and
// input that is not base64url all yield ErrMalformedSealed.
func Open(sealed string, key []byte) (string, error) {
	aesgcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	box, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(box) < nonceSize+aesgcm.Overhead() {
		return "", ErrMalformedSealed
	}

	plaintext, err := aesgcm.Open(nil, box[:nonceSize], box[nonceSize:], nil)
	if err != nil {
		return "", ErrMalformedSealed
	}
	return string(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Package auth signs session strings for transport. The session codec output
// is sealed with AES-GCM before it goes into the token, so the token holder
// can read neither the digest nor any other session field. Opening a token
// yields the codec output back for session.Decode.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

const issuer = "gophid"

// sessionKeySalt keeps the sealing key apart from other keys derived from
// the same secret.
var sessionKeySalt = []byte("gophid/session/v1")

// Claims carries the encoded session alongside the registered claims.
type Claims struct {
	jwt.RegisteredClaims
	Session string `json:"session"`
}

// now is a seam for tests.
var now = time.Now

func GenerateToken(session string, secretKey []byte, validityDuration time.Duration) (string, error) {
	issued := now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(validityDuration)),
		},
		Session: session,
	})

	return token.SignedString(secretKey)
}

// GetSessionFromToken verifies tokenString and returns the session it
// carries. Expired tokens yield common.ErrTokenExpired, anything else that
// fails verification yields common.ErrInvalidToken.
func GetSessionFromToken(tokenString string, secretKey []byte) (string, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Session == "" {
		return "", common.ErrInvalidToken
	}

	return claims.Session, nil
}

// SessionKey derives the key sessions are sealed with from the signing
// secret. Derivation is deliberately slow; compute it once per secret.
func SessionKey(secretKey []byte) []byte {
	return cryptox.DeriveKey(secretKey, sessionKeySalt)
}

// SealSessionToken seals session under sessionKey and signs the result.
func SealSessionToken(session string, secretKey, sessionKey []byte, validityDuration time.Duration) (string, error) {
	sealed, err := cryptox.Seal(session, sessionKey)
	if err != nil {
		return "", err
	}
	return GenerateToken(sealed, secretKey, validityDuration)
}

// OpenSessionToken verifies tokenString and unseals the session it carries.
// A payload that does not open under sessionKey is common.ErrInvalidToken.
func OpenSessionToken(tokenString string, secretKey, sessionKey []byte) (string, error) {
	sealed, err := GetSessionFromToken(tokenString, secretKey)
	if err != nil {
		return "", err
	}
	session, err := cryptox.Open(sealed, sessionKey)
	if err != nil {
		return "", common.ErrInvalidToken
	}
	return session, nil
}

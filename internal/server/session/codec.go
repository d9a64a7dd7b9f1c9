// Package session converts a resolved user into an opaque session string and
// back.
//
// The string is a JSON object. The user id is always written as a JSON string
// holding its base-10 form, never as a JSON number, so ids above 2^53 survive
// consumers that parse numbers as float64:
//
//	{"id":"9007199254740993","username":"A","email":"a@b.com","password":""}
package session

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/models"
)

// payload is the wire form of a session. Field names match the session
// documents already issued, so they must not change.
type payload struct {
	ID       *string `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
}

// Encode serializes u into a session string.
func Encode(u *models.User) (string, error) {
	id := strconv.FormatInt(u.ID, 10)
	b, err := json.Marshal(payload{
		ID:       &id,
		Username: u.UserName,
		Email:    u.Email,
		Password: u.PasswordHash,
	})
	if err != nil {
		return "", fmt.Errorf("session encode: %w", err)
	}
	return string(b), nil
}

// Decode parses a session string produced by Encode. Anything that is not a
// JSON object with a decimal-string id yields common.ErrSessionDecodeFailure;
// callers treat that as an invalid session.
func Decode(token string) (*models.User, error) {
	var p payload
	if err := json.Unmarshal([]byte(token), &p); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSessionDecodeFailure, err)
	}
	if p.ID == nil {
		return nil, fmt.Errorf("%w: missing id", common.ErrSessionDecodeFailure)
	}

	id, err := strconv.ParseInt(*p.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: id %q is not a decimal integer", common.ErrSessionDecodeFailure, *p.ID)
	}

	return &models.User{
		ID:           id,
		UserName:     p.Username,
		Email:        p.Email,
		PasswordHash: p.Password,
	}, nil
}

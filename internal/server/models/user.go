package models

// User is the canonical local identity every proof resolves to.
//
// ID may exceed 2^53; it is an int64 everywhere and crosses text boundaries
// only as a decimal string. PasswordHash is empty for federated-only accounts.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash string
}

// IsFederatedOnly reports whether the account has no local secret and so can
// never authenticate with email and password.
func (u *User) IsFederatedOnly() bool {
	return u.PasswordHash == ""
}

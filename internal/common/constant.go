// Package common contains shared constants and sentinel errors used across
// gophid components.
package common

// SessionTokenHeaderName is the gRPC metadata key used to carry the signed
// session token on inbound requests.
const SessionTokenHeaderName = "session_token"

// PlaceholderEmailDomain is appended to generated handles for federated
// accounts whose provider did not share an email.
const PlaceholderEmailDomain = "example.com"

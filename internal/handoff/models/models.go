// Package models holds the value types exchanged between the handoff
// coordinator and its collaborators.
package models

// LoginStatus classifies the outcome of a provider login attempt. The login
// collaborator owns the taxonomy; the coordinator only branches on success.
type LoginStatus string

const (
	LoginOk          LoginStatus = "login_ok"
	UserCreated      LoginStatus = "user_created"
	EmailNotVerified LoginStatus = "email_not_verified"
	EmailTaken       LoginStatus = "email_taken"
	InternalError    LoginStatus = "internal_error"
)

// Success reports whether the status grants a login.
func (s LoginStatus) Success() bool {
	return s == LoginOk || s == UserCreated
}

// User is the reference to a first-party account as the coordinator sees it.
type User struct {
	ID     string
	Email  string
	Name   string
	Avatar string
}

// ProviderProfile is the normalized identity a provider wrapper returns.
type ProviderProfile struct {
	ID     string
	Email  string
	Name   string
	Avatar string
}

// RedirectResponse is the provider authorization redirect the browser should
// follow. State carries the signed server token on the stateless path and is
// empty on the stateful one.
type RedirectResponse struct {
	URL   string
	State string
}

// OAuthLoginResult is the ephemeral outcome of callback handling. SignedNonce
// is present on the stateless path even for non-success statuses, so the
// originating context can be informed and cleaned up. Never persisted.
type OAuthLoginResult struct {
	User        *User
	Status      LoginStatus
	SignedNonce string
}

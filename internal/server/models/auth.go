package models

// AuthenticationResult is the closed set of outcomes of a password check.
type AuthenticationResult int

const (
	AuthOk AuthenticationResult = iota
	AuthNoSuchUser
	AuthLoginDisabled
	AuthIncorrectPassword
)

func (r AuthenticationResult) String() string {
	switch r {
	case AuthOk:
		return "ok"
	case AuthNoSuchUser:
		return "no such user"
	case AuthLoginDisabled:
		return "login disabled"
	case AuthIncorrectPassword:
		return "incorrect password"
	default:
		return "unknown"
	}
}

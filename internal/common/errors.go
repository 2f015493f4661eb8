// Package common defines shared constants and sentinel errors used across
// the storage, service and transport layers of mailpasswd. Callers should use
// errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")

	// A stored password hash could not be parsed. This points at data
	// corruption and is never reported as a wrong password.
	ErrorCorruptHash = errors.New("corrupt password hash")
)

package client

import "errors"

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotFound    = errors.New("user not found")
)

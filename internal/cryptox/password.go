// Package cryptox produces and checks password material: high-entropy
// application passwords and their Argon2 hashes in PHC string format.
package cryptox

import (
	"crypto/rand"
	"io"
)

// PasswordLength is the length of every generated application password.
const PasswordLength = 64

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Largest multiple of len(alphanumeric) that fits in a byte. Bytes at or
// above it are dropped so every character is equally likely.
const acceptBelow = 256 - 256%len(alphanumeric)

// randReader is a seam for tests.
var randReader io.Reader = rand.Reader

// GeneratePassword returns a fresh PasswordLength-character alphanumeric
// password drawn from the operating system CSPRNG.
func GeneratePassword() (string, error) {
	return generate(randReader, PasswordLength)
}

func generate(r io.Reader, n int) (string, error) {
	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= acceptBelow {
				continue
			}
			out = append(out, alphanumeric[int(b)%len(alphanumeric)])
			if len(out) == n {
				break
			}
		}
	}
	WipeByteArray(buf)
	return string(out), nil
}

// WipeByteArray overwrites b with zeros. Nil slices are ignored.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

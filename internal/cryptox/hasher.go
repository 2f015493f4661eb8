package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/mailpasswd/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	algArgon2id = "argon2id"
	// Hashes written by earlier deployments used Argon2i; they still verify.
	algArgon2i = "argon2i"
)

// Limits on parameters read back from stored hashes. Values outside them
// mark the hash as corrupt instead of letting Verify allocate or spin
// without bound.
const (
	maxMemoryKiB = 4 * 1024 * 1024
	maxTime      = 64
	minSaltLen   = 8
	maxKeyLen    = 1024
)

// Hasher hashes secrets with Argon2id and verifies PHC strings of the form
//
//	$argon2id$v=19$m=65536,t=1,p=4$<salt>$<hash>
//
// Salt and hash are unpadded standard base64. Each Hash call draws a new
// random salt, so hashing the same secret twice gives different strings.
type Hasher struct {
	time    uint32
	memory  uint32
	threads uint8
	keyLen  uint32
	saltLen int
}

type HasherOption func(*Hasher)

// WithTime sets the number of passes (default 1).
func WithTime(t uint32) HasherOption {
	return func(h *Hasher) {
		if t > 0 {
			h.time = t
		}
	}
}

// WithMemory sets the memory cost in KiB (default 64 MiB).
func WithMemory(m uint32) HasherOption {
	return func(h *Hasher) {
		if m > 0 {
			h.memory = m
		}
	}
}

// WithThreads sets the degree of parallelism (default 4).
func WithThreads(p uint8) HasherOption {
	return func(h *Hasher) {
		if p > 0 {
			h.threads = p
		}
	}
}

func NewHasher(opts ...HasherOption) *Hasher {
	h := &Hasher{
		time:    1,
		memory:  64 * 1024,
		threads: 4,
		keyLen:  32,
		saltLen: 16,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash returns the PHC-encoded Argon2id hash of secret.
func (h *Hasher) Hash(secret string) (string, error) {
	salt := make([]byte, h.saltLen)
	if _, err := io.ReadFull(randReader, salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(secret), salt, h.time, h.memory, h.threads, h.keyLen)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algArgon2id, argon2.Version,
		h.memory, h.time, h.threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether secret matches the encoded hash. The comparison is
// constant-time. A hash that cannot be parsed yields an error wrapping
// common.ErrorCorruptHash rather than a plain mismatch.
func (h *Hasher) Verify(secret, encoded string) (bool, error) {
	p, err := parsePHC(encoded)
	if err != nil {
		return false, fmt.Errorf("%w: %v", common.ErrorCorruptHash, err)
	}

	var key []byte
	switch p.alg {
	case algArgon2id:
		key = argon2.IDKey([]byte(secret), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	case algArgon2i:
		key = argon2.Key([]byte(secret), p.salt, p.time, p.memory, p.threads, uint32(len(p.key)))
	}

	return subtle.ConstantTimeCompare(key, p.key) == 1, nil
}

type phc struct {
	alg     string
	time    uint32
	memory  uint32
	threads uint8
	salt    []byte
	key     []byte
}

func parsePHC(encoded string) (*phc, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("expected 5 '$'-separated fields, got %d", len(parts)-1)
	}

	p := &phc{alg: parts[1]}
	if p.alg != algArgon2id && p.alg != algArgon2i {
		return nil, fmt.Errorf("unsupported algorithm %q", p.alg)
	}

	if parts[2] != "v="+strconv.Itoa(argon2.Version) {
		return nil, fmt.Errorf("unsupported version %q", parts[2])
	}

	var seen int
	for _, kv := range strings.Split(parts[3], ",") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("malformed parameter %q", kv)
		}
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", k, err)
		}
		switch k {
		case "m":
			p.memory = uint32(n)
		case "t":
			p.time = uint32(n)
		case "p":
			if n > 255 {
				return nil, fmt.Errorf("parallelism %d out of range", n)
			}
			p.threads = uint8(n)
		default:
			continue
		}
		seen++
	}
	if seen != 3 || p.memory == 0 || p.time == 0 || p.threads == 0 {
		return nil, fmt.Errorf("incomplete parameters %q", parts[3])
	}
	if p.memory > maxMemoryKiB {
		return nil, fmt.Errorf("memory cost %d KiB exceeds %d", p.memory, maxMemoryKiB)
	}
	if p.time > maxTime {
		return nil, fmt.Errorf("time cost %d exceeds %d", p.time, maxTime)
	}

	var err error
	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return nil, fmt.Errorf("decode salt: %w", err)
	}
	if p.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return nil, fmt.Errorf("decode hash: %w", err)
	}
	if len(p.salt) < minSaltLen {
		return nil, fmt.Errorf("salt of %d bytes is shorter than %d", len(p.salt), minSaltLen)
	}
	if len(p.key) == 0 {
		return nil, fmt.Errorf("empty hash")
	}
	if len(p.key) > maxKeyLen {
		return nil, fmt.Errorf("hash of %d bytes exceeds %d", len(p.key), maxKeyLen)
	}

	return p, nil
}

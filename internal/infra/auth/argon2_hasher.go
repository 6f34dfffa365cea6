// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"strongbox/config"
	"strongbox/internal/domain/service"
)

// Default argon2id parameters, applied when the config leaves them unset.
const (
	defaultMemory      uint32 = 64 * 1024 // KiB
	defaultIterations  uint32 = 3
	defaultParallelism uint8  = 2
	saltLength                = 16
	keyLength          uint32 = 32
)

// argon2Hasher is a concrete implementation of the PasswordHasher interface
// using argon2id, a memory-hard KDF. Each hash carries its own random salt
// and parameters in the standard PHC string format, so verification works
// across parameter changes.
type argon2Hasher struct {
	memory      uint32
	iterations  uint32
	parallelism uint8
}

// NewArgon2Hasher is the constructor for argon2Hasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewArgon2Hasher(cfg *config.Config) service.PasswordHasher {
	h := &argon2Hasher{
		memory:      defaultMemory,
		iterations:  defaultIterations,
		parallelism: defaultParallelism,
	}
	if cfg != nil && cfg.Auth != nil {
		if cfg.Auth.Argon2Memory > 0 {
			h.memory = cfg.Auth.Argon2Memory
		}
		if cfg.Auth.Argon2Iterations > 0 {
			h.iterations = cfg.Auth.Argon2Iterations
		}
		if cfg.Auth.Argon2Parallelism > 0 {
			h.parallelism = cfg.Auth.Argon2Parallelism
		}
	}

	return h
}

// Hash generates a salted argon2id hash from a plaintext password.
// A fresh random salt is drawn per call, so hashing the same password
// twice never yields the same string.
func (h *argon2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, h.iterations, h.memory, h.parallelism, keyLength)

	encoded := fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.memory,
		h.iterations,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Check compares a plaintext password with an encoded argon2id hash.
// Malformed hashes simply fail the check.
func (h *argon2Hasher) Check(password, hash string) bool {
	memory, iterations, parallelism, salt, key, err := decodeHash(hash)
	if err != nil {
		return false
	}

	candidate := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(key)))

	return subtle.ConstantTimeCompare(candidate, key) == 1
}

// decodeHash parses a PHC-formatted argon2id hash string.
func decodeHash(encoded string) (memory, iterations uint32, parallelism uint8, salt, key []byte, err error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return 0, 0, 0, nil, nil, fmt.Errorf("malformed argon2id hash")
	}

	var version int
	if _, err = fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("parse version: %w", err)
	}
	if version != argon2.Version {
		return 0, 0, 0, nil, nil, fmt.Errorf("unsupported argon2 version %d", version)
	}

	if _, err = fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("parse parameters: %w", err)
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return 0, 0, 0, nil, nil, fmt.Errorf("decode key: %w", err)
	}

	return memory, iterations, parallelism, salt, key, nil
}

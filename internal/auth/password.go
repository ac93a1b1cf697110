// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package auth verifies the admin credentials. Passwords are stored as
// argon2id hashes in the configuration, never in plain text.
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Argon2 parameters (OWASP recommended second choice: m=19456, t=2, p=1)
const (
	Argon2Time    = 2
	Argon2Memory  = 19 * 1024
	Argon2Threads = 1
	Argon2KeyLen  = 32
	Argon2SaltLen = 16
)

// ErrInvalidHash is returned for a hash not in the encoded argon2id format.
var ErrInvalidHash = errors.New("invalid argon2id hash")

type argon2Hash struct {
	memory  uint32
	time    uint32
	threads uint8
	salt    []byte
	key     []byte
}

// decodeHash parses $argon2id$v=19$m=...,t=...,p=...$salt$key.
func decodeHash(encoded string) (argon2Hash, error) {
	var h argon2Hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return h, ErrInvalidHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("%w: unsupported version", ErrInvalidHash)
	}
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.memory, &h.time, &h.threads); err != nil {
		return h, fmt.Errorf("%w: parsing parameters: %v", ErrInvalidHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil {
		return h, fmt.Errorf("%w: decoding salt: %v", ErrInvalidHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil {
		return h, fmt.Errorf("%w: decoding key: %v", ErrInvalidHash, err)
	}
	if len(h.key) == 0 {
		return h, fmt.Errorf("%w: empty key", ErrInvalidHash)
	}
	return h, nil
}

// HashPassword creates an encoded argon2id hash of password.
func HashPassword(password string) (string, error) {
	salt := make([]byte, Argon2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generating salt: %w", err)
	}

	key := argon2.IDKey([]byte(password), salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, Argon2Memory, Argon2Time, Argon2Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key)), nil
}

// CheckPassword verifies password against an encoded hash in constant time.
func CheckPassword(password, encodedHash string) (bool, error) {
	h, err := decodeHash(encodedHash)
	if err != nil {
		return false, err
	}
	key := argon2.IDKey([]byte(password), h.salt, h.time, h.memory, h.threads, uint32(len(h.key)))
	return subtle.ConstantTimeCompare(key, h.key) == 1, nil
}

// NeedsRehash reports whether encodedHash was created with other parameters
// than the current defaults.
func NeedsRehash(encodedHash string) bool {
	h, err := decodeHash(encodedHash)
	if err != nil {
		return true
	}
	return h.memory != Argon2Memory || h.time != Argon2Time || h.threads != Argon2Threads
}

// Credentials is the single admin account.
type Credentials struct {
	username string
	hash     string
}

// NewCredentials validates the configured hash and returns the account.
func NewCredentials(username, encodedHash string) (*Credentials, error) {
	if username == "" {
		return nil, errors.New("admin username is required")
	}
	if _, err := decodeHash(encodedHash); err != nil {
		return nil, err
	}
	return &Credentials{username: username, hash: encodedHash}, nil
}

// Verify reports whether username and password match the admin account.
// The password hash is always computed so a wrong username takes as long
// as a wrong password.
func (c *Credentials) Verify(username, password string) bool {
	if c == nil {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.username)) == 1
	passOK, err := CheckPassword(password, c.hash)
	return userOK && passOK && err == nil
}

// Package password hashes and verifies account credentials with Argon2id,
// encoded in the PHC string format so parameters can change without
// invalidating stored hashes.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Defaults follow the RFC 9106 low-memory recommendation. Stored hashes
// carry their own parameters, so these only apply to new passwords.
const (
	defaultTime    uint32 = 1
	defaultMemory  uint32 = 64 * 1024
	defaultThreads uint8  = 4
	keyLen         uint32 = 32
	saltLen               = 16
)

// Hash derives an Argon2id hash for a new or changed password and returns
// it PHC-encoded ($argon2id$v=19$m=...,t=...,p=...$salt$hash).
func Hash(password string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey([]byte(password), salt, defaultTime, defaultMemory, defaultThreads, keyLen)

	return fmt.Sprintf("$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		defaultMemory, defaultTime, defaultThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// Verify reports whether password matches the PHC-encoded hash. Malformed
// encodings verify as false rather than erroring.
func Verify(password, encoded string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" || parts[2] != "v=19" {
		return false
	}

	memory, timeCost, threads, ok := parseParams(parts[3])
	if !ok {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return false
	}

	check := argon2.IDKey([]byte(password), salt, timeCost, memory, threads, uint32(len(hash)))
	return subtle.ConstantTimeCompare(hash, check) == 1
}

// parseParams decodes the "m=...,t=...,p=..." segment of a PHC string.
func parseParams(s string) (memory, timeCost uint32, threads uint8, ok bool) {
	fields := strings.Split(s, ",")
	if len(fields) != 3 {
		return 0, 0, 0, false
	}

	m, okM := strings.CutPrefix(fields[0], "m=")
	t, okT := strings.CutPrefix(fields[1], "t=")
	p, okP := strings.CutPrefix(fields[2], "p=")
	if !okM || !okT || !okP {
		return 0, 0, 0, false
	}

	m64, err := strconv.ParseUint(m, 10, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	t64, err := strconv.ParseUint(t, 10, 32)
	if err != nil {
		return 0, 0, 0, false
	}
	p64, err := strconv.ParseUint(p, 10, 8)
	if err != nil {
		return 0, 0, 0, false
	}

	return uint32(m64), uint32(t64), uint8(p64), true
}

// Package password derives and verifies salted scrypt password hashes.
//
// Stored values have the form "<derivedKeyHex>.<saltHex>" with a random
// 16-byte salt per password and a 64-byte derived key. Verification uses a
// constant-time comparison so response timing does not leak how much of the
// hash matched.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	saltLen = 16
	keyLen  = 64

	scryptN = 16384
	scryptR = 8
	scryptP = 1
)

// Hash derives a salted hash for the given plaintext password.
func Hash(plain string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(plain), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// Verify reports whether plain matches the stored hash. It returns an error
// only when the stored value is malformed; a wrong password yields (false, nil).
func Verify(plain, stored string) (bool, error) {
	keyHex, saltHex, ok := strings.Cut(stored, ".")
	if !ok {
		return false, fmt.Errorf("malformed stored hash")
	}

	expected, err := hex.DecodeString(keyHex)
	if err != nil {
		return false, fmt.Errorf("decode stored key: %w", err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, fmt.Errorf("decode stored salt: %w", err)
	}
	if len(expected) != keyLen || len(salt) != saltLen {
		return false, fmt.Errorf("unexpected stored hash length")
	}

	key, err := scrypt.Key([]byte(plain), salt, scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return false, fmt.Errorf("derive key: %w", err)
	}

	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}

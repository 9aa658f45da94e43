// Package hashing implements the one-way password digest used to verify
// stored credentials. The digest is argon2id over the plaintext with the
// per-user salt as KDF input, hex-encoded for storage.
package hashing

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// argon2id parameters. Changing these invalidates every stored digest,
// so they are fixed for the lifetime of the credential table.
const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	digestLen    = 32
)

// Digest computes the stored form of a password. Deterministic: the same
// (password, salt) pair always yields the same digest, and distinct salts
// yield unrelated digests.
func Digest(password, salt string) string {
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, digestLen)
	return hex.EncodeToString(key)
}

// Verify recomputes the digest for the candidate password and compares it
// against the stored digest in constant time. A stored digest that is not
// valid hex never matches.
func Verify(password, salt, storedDigest string) bool {
	stored, err := hex.DecodeString(storedDigest)
	if err != nil {
		return false
	}
	key := argon2.IDKey([]byte(password), []byte(salt), argonTime, argonMemory, argonThreads, digestLen)
	return subtle.ConstantTimeCompare(key, stored) == 1
}

// Package cryptox holds the hashing and sealing primitives used by the
// credential and backup services.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for backup keys.
const (
	argonTime    = 1
	argonMemKiB  = 64 * 1024
	argonThreads = 4
	KeySize      = 32
	SaltSize     = 16
)

// HashPassword returns the lower-case hex SHA-256 digest of password.
// No salt and no stretching: persisted hashes depend on this exact scheme.
func HashPassword(password []byte) string {
	sum := sha256.Sum256(password)
	return hex.EncodeToString(sum[:])
}

// DeriveKey stretches a passphrase into a KeySize AES key with Argon2id.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, argonTime, argonMemKiB, argonThreads, KeySize)
}

// SealJSON marshals v to JSON and encrypts it with AES-GCM under key.
// A fresh random nonce is generated for every call and returned separately.
func SealJSON(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal: %w", err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, fmt.Errorf("nonce: %w", err)
	}

	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// OpenJSON decrypts ciphertext produced by SealJSON and unmarshals the
// plaintext into v. Authentication failures are returned as errors.
func OpenJSON(ciphertext, nonce, key []byte, v any) error {
	aead, err := newGCM(key)
	if err != nil {
		return err
	}

	if len(nonce) != aead.NonceSize() {
		return fmt.Errorf("open: nonce must be %d bytes, got %d", aead.NonceSize(), len(nonce))
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	return json.Unmarshal(plaintext, v)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return aead, nil
}

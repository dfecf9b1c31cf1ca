// Package cryptox implements the password-based encryption used for card
// secrets, bundles and keychain exports.
//
// A blob produced by Encrypt is self-describing:
//
//	offset 0..16   salt
//	offset 16..28  AES-GCM nonce
//	offset 28..    ciphertext || 16-byte tag
//
// so the password is the only thing needed to open it.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/chaincode/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16
	NonceSize  = 12
	TagSize    = 16
	KeySize    = 32
	Iterations = 100_000

	// HeaderSize is the fixed prefix of every blob.
	HeaderSize = SaltSize + NonceSize
)

var (
	// ErrFormat reports a blob that is too short to parse.
	ErrFormat = common.ErrFormat

	// ErrAuthentication reports a failed tag check. Wrong password and
	// tampered data are indistinguishable.
	ErrAuthentication = errors.New("authentication failed")

	// ErrEmptyPassword is returned instead of falling back to a default password.
	ErrEmptyPassword = errors.New("password is required")
)

// randReader is the entropy source for salts and nonces; tests may swap it.
var randReader io.Reader = rand.Reader

// Derive stretches password with PBKDF2-HMAC-SHA256 into a 256-bit AES key.
// The result is deterministic for a given password and salt.
func Derive(password, salt []byte) []byte {
	return pbkdf2.Key(password, salt, Iterations, KeySize, sha256.New)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cannot create aes block cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cannot create gcm cipher: %w", err)
	}
	return gcm, nil
}

// Encrypt seals plaintext under a key derived from password. A fresh salt and
// nonce are drawn on every call, so encrypting the same input twice yields
// different blobs.
func Encrypt(plaintext []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}

	header := make([]byte, HeaderSize)
	if _, err := io.ReadFull(randReader, header); err != nil {
		return nil, fmt.Errorf("cannot generate salt and nonce: %w", err)
	}
	salt, nonce := header[:SaltSize], header[SaltSize:]

	pw := []byte(password)
	key := Derive(pw, salt)
	defer common.WipeByteArray(key)
	defer common.WipeByteArray(pw)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, HeaderSize, HeaderSize+len(plaintext)+gcm.Overhead())
	copy(out, header)
	return gcm.Seal(out, nonce, plaintext, nil), nil
}

// Decrypt opens a blob produced by Encrypt. It returns ErrFormat when the blob
// is too short to hold a header and ErrAuthentication when the tag does not
// verify. Nothing is returned on failure.
func Decrypt(blob []byte, password string) ([]byte, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	if len(blob) < HeaderSize {
		return nil, fmt.Errorf("%w: blob is %d bytes, need at least %d", ErrFormat, len(blob), HeaderSize)
	}

	salt := blob[:SaltSize]
	nonce := blob[SaltSize:HeaderSize]
	ciphertext := blob[HeaderSize:]

	pw := []byte(password)
	key := Derive(pw, salt)
	defer common.WipeByteArray(key)
	defer common.WipeByteArray(pw)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plaintext, nil
}

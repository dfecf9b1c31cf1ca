package cryptox

import (
	"fmt"
	"io"
)

// DefaultPasswordLength is the length of generated per-card passwords.
const DefaultPasswordLength = 20

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// GeneratePassword returns n characters drawn uniformly from [A-Za-z0-9].
// Bytes above the largest multiple of the alphabet size are rejected so
// every character is equally likely.
func GeneratePassword(n int) (string, error) {
	if n <= 0 {
		n = DefaultPasswordLength
	}

	limit := byte(256 - 256%len(passwordAlphabet))
	out := make([]byte, 0, n)
	buf := make([]byte, n)

	for len(out) < n {
		if _, err := io.ReadFull(randReader, buf); err != nil {
			return "", fmt.Errorf("cannot generate password: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, passwordAlphabet[int(b)%len(passwordAlphabet)])
			if len(out) == n {
				break
			}
		}
	}

	return string(out), nil
}

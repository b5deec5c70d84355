package random

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Selector picks a uniformly distributed index in [0, n)
type Selector interface {
	Pick(n int) (int, error)
}

// SecureSelector draws indices from a cryptographic entropy source.
// crypto/rand.Int rejection-samples, so the result carries no modulo bias for any n.
type SecureSelector struct {
	source io.Reader
}

// NewSecureSelector creates a selector backed by crypto/rand
func NewSecureSelector() *SecureSelector {
	return &SecureSelector{source: rand.Reader}
}

// Pick returns a uniform index in [0, n). It fails for n <= 0.
func (s *SecureSelector) Pick(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("pick bound must be greater than 0, got %d", n)
	}

	v, err := rand.Int(s.source, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to read random index: %w", err)
	}

	return int(v.Int64()), nil
}

const eventCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateEventCode returns a random lowercase alphanumeric code of the given length
func GenerateEventCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be greater than 0, got %d", length)
	}

	selector := NewSecureSelector()
	code := make([]byte, length)
	for i := range code {
		idx, err := selector.Pick(len(eventCodeAlphabet))
		if err != nil {
			return "", fmt.Errorf("failed to generate event code: %w", err)
		}
		code[i] = eventCodeAlphabet[idx]
	}

	return string(code), nil
}

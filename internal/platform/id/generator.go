// Package id issues the opaque public identifiers that all externally
// visible rows carry. Database serials never leave the service.
package id

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns 128 bits of randomness as lowercase base32.
func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return strings.ToLower(encoding.EncodeToString(buf)), nil
}

package order

import (
	"crypto/rand"
	"fmt"
)

// Order numbers are short human-readable references ("FD-8XK2M4NQ7T") handed
// to customers and couriers. The alphabet omits 0/O/1/I to keep the numbers
// unambiguous when read aloud.
const (
	numberPrefix   = "FD"
	numberLength   = 10
	numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// MaxNumberAttempts bounds the retry loop on an order-number collision.
// With a 32^10 space, collisions are vanishingly rare; the bound exists so a
// broken uniqueness constraint cannot spin the submit path forever.
const MaxNumberAttempts = 5

// GenerateNumber produces a new random order number candidate. Uniqueness is
// enforced by the persistence layer; callers retry on collision up to
// MaxNumberAttempts.
func GenerateNumber() (string, error) {
	buf := make([]byte, numberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate order number: %w", err)
	}

	for i, b := range buf {
		buf[i] = numberAlphabet[int(b)%len(numberAlphabet)]
	}

	return numberPrefix + "-" + string(buf), nil
}

package identifier

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Alphabet is the set of characters used for generated names. Digits plus
// both letter cases keeps names short while staying safe in file paths and
// URLs without escaping.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Generate returns a random name of exactly length characters drawn
// uniformly from Alphabet. Collision handling is up to the caller.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("identifier: length must be positive, got %d", length)
	}

	max := big.NewInt(int64(len(Alphabet)))
	name := make([]byte, length)
	for i := range name {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("identifier: read random source: %w", err)
		}
		name[i] = Alphabet[n.Int64()]
	}

	return string(name), nil
}

// Package shortcode generates the random codes short URLs resolve through.
//
// Codes are drawn from a case-sensitive base62 alphabet so a 6 character code
// already spans 62^6 possibilities. Generation alone does not guarantee
// uniqueness: the storage layer's unique index is the final arbiter, and
// callers regenerate on a collision.
package shortcode

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet is the fixed code alphabet. Codes are unpredictable, never
// sequential, so existing codes cannot be enumerated from a known one.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generator produces candidate short codes. It is an explicit dependency of
// the shortening flow so tests can supply a deterministic implementation and
// force collisions.
type Generator interface {
	Generate(length int) (string, error)
}

// NanoID generates codes from crypto/rand via the nanoid algorithm.
type NanoID struct{}

func (NanoID) Generate(length int) (string, error) {
	const op = "shortcode.NanoID.Generate"

	code, err := gonanoid.Generate(Alphabet, length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate code: %w", op, err)
	}

	return code, nil
}

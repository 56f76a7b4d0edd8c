// Package joincode generates and checks the short codes users type to join a group.
//
// A code is Length characters drawn uniformly from Alphabet using crypto/rand.
// Codes are matched case-insensitively: user input is upper-cased by Normalize
// before it is compared with stored codes, which are always upper case.
package joincode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// Length of every join code.
	Length = 6

	// Alphabet join codes are drawn from.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// byteRange is the number of values a random byte can take.
	byteRange = 256

	// bufLen covers Length plus rejected bytes in almost every draw.
	bufLen = 16
)

// maxAccepted is the largest byte value that keeps alphabet selection unbiased.
var maxAccepted = byteRange - (byteRange % len(Alphabet)) - 1 //nolint:gochecknoglobals

var (
	// ErrInvalidFormat is returned for codes that are not Length characters of Alphabet.
	ErrInvalidFormat = errors.New("join code must be 6 letters or digits")
)

// Generator draws join codes from a random source.
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a generator reading from r, crypto/rand when r is nil.
func NewGenerator(r io.Reader) *Generator {
	if r == nil {
		r = rand.Reader
	}

	return &Generator{rand: r}
}

// Next returns a fresh random code.
func (g *Generator) Next() (string, error) {
	var (
		buf = make([]byte, bufLen)
		out = make([]byte, 0, Length)
	)

	for len(out) < Length {
		if _, err := io.ReadFull(g.rand, buf); err != nil {
			return "", fmt.Errorf("read random bytes: %w", err)
		}

		for _, b := range buf {
			// skip bytes that would favour the first characters of the alphabet
			if int(b) > maxAccepted {
				continue
			}

			out = append(out, Alphabet[int(b)%len(Alphabet)])
			if len(out) == Length {
				break
			}
		}
	}

	return string(out), nil
}

// New returns a random code from crypto/rand.
func New() (string, error) {
	return NewGenerator(nil).Next()
}

// Normalize trims surrounding space and upper-cases user input.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate reports whether code is a well formed, already normalized join code.
func Validate(code string) error {
	if len(code) != Length {
		return ErrInvalidFormat
	}

	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return ErrInvalidFormat
		}
	}

	return nil
}

// Parse normalizes user input and validates the result.
func Parse(input string) (string, error) {
	code := Normalize(input)

	return code, Validate(code)
}

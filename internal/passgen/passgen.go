// Package passgen generates strong passwords and scores password weakness.
package passgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode"
)

const symbols = "!@#$%^&*()-_=+[]{}:,.?"

const alphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" + symbols

// DefaultLength is used for generated rotation passwords.
const DefaultLength = 24

// Generate returns a random password of the given length drawn from the full
// alphabet. Length must be at least 16.
func Generate(length int) (string, error) {
	if length < 16 {
		return "", fmt.Errorf("password length must be >= 16, got %d", length)
	}
	max := big.NewInt(int64(len(alphabet)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String(), nil
}

// IsWeak reports whether a password fails the local policy: minimum length 14
// and at least one of each of lowercase, uppercase, digit, symbol.
func IsWeak(password string) bool {
	if len(password) < 14 {
		return true
	}
	var lower, upper, digit, symbol bool
	for _, c := range password {
		switch {
		case unicode.IsLower(c):
			lower = true
		case unicode.IsUpper(c):
			upper = true
		case unicode.IsDigit(c):
			digit = true
		case strings.ContainsRune(symbols, c):
			symbol = true
		}
	}
	return !(lower && upper && digit && symbol)
}

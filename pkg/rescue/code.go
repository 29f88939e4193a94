// Package rescue generates and decodes rescue codes: the human-manageable
// credential protecting an identity's unlock key. A rescue code is 24 random
// decimal digits, displayed in groups of four. Codes are never stored; the
// caller is responsible for showing the code to the user out of band.
package rescue

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

const (
	codeDigits = 24
	groupSize  = 4
)

var (
	ErrInvalidRescueCode = errors.New("invalid rescue code")
)

// Generate produces a fresh random rescue code. It returns the display form
// ("1234-5678-...") and the raw digit bytes that feed key derivation.
func Generate() (string, []byte, error) {
	raw := make([]byte, 0, codeDigits)
	buf := make([]byte, codeDigits)
	for len(raw) < codeDigits {
		if _, err := rand.Read(buf); err != nil {
			return "", nil, fmt.Errorf("failed to generate rescue code: %w", err)
		}
		for _, b := range buf {
			if len(raw) == codeDigits {
				break
			}
			// Reject bytes >= 250 so every digit is equally likely.
			if b >= 250 {
				continue
			}
			raw = append(raw, '0'+b%10)
		}
	}
	return format(raw), raw, nil
}

// Decode strips grouping separators and whitespace from a display-form code
// and returns the raw digit bytes. The digits themselves are the key
// material; decoding the same code always yields the same bytes.
func Decode(code string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\t':
			return -1
		}
		return r
	}, code)
	if len(cleaned) != codeDigits {
		return nil, fmt.Errorf("%w: expected %d digits, got %d", ErrInvalidRescueCode, codeDigits, len(cleaned))
	}
	for _, r := range cleaned {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("%w: codes contain only digits", ErrInvalidRescueCode)
		}
	}
	return []byte(cleaned), nil
}

func format(raw []byte) string {
	var sb strings.Builder
	for i := 0; i < len(raw); i += groupSize {
		if i > 0 {
			sb.WriteByte('-')
		}
		sb.Write(raw[i : i+groupSize])
	}
	return sb.String()
}

package auth

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

const MinPasswordLen = 10

// CheckStrength rejects admin passwords that are short or lack either letters
// or digits. Case is not required: Arabic script has none.
func CheckStrength(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, MinPasswordLen)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
		if hasLetter && hasDigit {
			return nil
		}
	}

	if !hasLetter {
		return fmt.Errorf("%w: must contain a letter", ErrWeakPassword)
	}
	return fmt.Errorf("%w: must contain a digit", ErrWeakPassword)
}

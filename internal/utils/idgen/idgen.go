// Package idgen генерирует идентификаторы записей вида "<unix-millis>-<random>".
package idgen

import (
	"fmt"
	"strconv"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Alphabet defines the character set used for the random suffix.
var Alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Length is the number of random characters after the timestamp.
var Length = 9

// Generate returns a new id based on the given time.
func Generate(now time.Time) (string, error) {
	suffix, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + suffix, nil
}

package db

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Driver-specific unique-violation messages. Gorm only translates these
// into gorm.ErrDuplicatedKey when TranslateError is enabled, so match the
// raw text as a fallback across postgres (23505), mysql (1062) and
// sqlite (2067).
var duplicateKeyMarkers = []string{
	"duplicate key value violates unique constraint",
	"Error 1062",
	"UNIQUE constraint failed",
}

// IsDuplicateKeyErr reports whether err is a unique-constraint violation
// from any of the supported drivers.
func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	for _, marker := range duplicateKeyMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

package sql

import (
	"errors"
	"strings"
)

// MaxQueryLength is the longest generated projection accepted for storage.
const MaxQueryLength = 1000

// ErrQueryTooLong indicates the generated statement exceeds MaxQueryLength.
var ErrQueryTooLong = errors.New("generated SQL query is too long; please select fewer fields")

// BuildSelect composes "SELECT f1, f2 FROM table" from sanitized fields and a
// validated table name. The statement is rejected, never truncated, when it is
// longer than MaxQueryLength.
func BuildSelect(fields []string, table string) (string, error) {
	if len(fields) == 0 {
		return "", ErrNoValidFields
	}

	query := "SELECT " + strings.Join(fields, ", ") + " FROM " + table
	if len(query) > MaxQueryLength {
		return "", ErrQueryTooLong
	}

	if err := ValidateSingleStatement(query); err != nil {
		return "", err
	}
	return query, nil
}

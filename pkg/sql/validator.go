// Package sql provides identifier sanitization and validation for generated SQL.
package sql

import "errors"

var (
	// ErrMultipleStatements indicates the query contains multiple SQL statements.
	ErrMultipleStatements = errors.New("multiple SQL statements not allowed; only single statements are permitted")

	// ErrCommentNotAllowed indicates a comment marker outside string literals.
	ErrCommentNotAllowed = errors.New("SQL comments are not allowed in generated queries")
)

// ValidateSingleStatement rejects SQL containing a statement separator or a
// comment marker outside string literals. A trailing semicolon is rejected too.
func ValidateSingleStatement(sqlQuery string) error {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch {
			case char == ';':
				return ErrMultipleStatements
			case char == '-' && prevChar == '-', char == '*' && prevChar == '/':
				return ErrCommentNotAllowed
			case char == '\'':
				state = stateSingleQuote
			case char == '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// '' closes and immediately reopens the literal
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return nil
}

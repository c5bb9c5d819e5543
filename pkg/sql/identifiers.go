package sql

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrNoValidFields indicates that no field survived sanitization.
	ErrNoValidFields = errors.New("no valid fields provided; field names must contain only letters, numbers, and underscores, and start with a letter or underscore")

	// ErrInvalidTableName indicates a table name that is not a plain or schema-qualified identifier.
	ErrInvalidTableName = errors.New("invalid table name; table names must be an identifier, optionally qualified by a schema")
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	tableNamePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)
)

// fieldStripTokens are removed from field names in this order.
var fieldStripTokens = []string{";", "--", `"`, "'"}

// IsIdentifier reports whether name is a bare SQL identifier.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}

// SanitizeField trims a user-supplied column name, strips statement and quote
// characters, and returns the result if it is a bare identifier.
func SanitizeField(raw string) (string, bool) {
	field := strings.TrimSpace(raw)
	for _, token := range fieldStripTokens {
		field = strings.ReplaceAll(field, token, "")
	}
	if field == "" || !IsIdentifier(field) {
		return "", false
	}
	return field, true
}

// SanitizeFields returns the fields that survive SanitizeField, in input order.
// Duplicates are kept. Applying it to its own output returns the same list.
func SanitizeFields(raw []string) []string {
	fields := make([]string, 0, len(raw))
	for _, r := range raw {
		if f, ok := SanitizeField(r); ok {
			fields = append(fields, f)
		}
	}
	return fields
}

// StripTableQuotes removes double and single quote characters from a table name.
func StripTableQuotes(table string) string {
	return strings.NewReplacer(`"`, "", "'", "").Replace(table)
}

// ValidateTableName checks a quote-stripped table name against the identifier
// rules applied to fields, allowing one schema qualifier, and rejects names
// libinjection flags.
func ValidateTableName(table string) error {
	if !tableNamePattern.MatchString(table) {
		return ErrInvalidTableName
	}
	if CheckIdentifierForInjection("table", table) != nil {
		return ErrInvalidTableName
	}
	return nil
}

// SplitTableName splits "schema.table" into its parts.
// An unqualified name returns defaultSchema.
func SplitTableName(table, defaultSchema string) (schema, name string) {
	if i := strings.IndexByte(table, '.'); i >= 0 {
		return table[:i], table[i+1:]
	}
	return defaultSchema, table
}

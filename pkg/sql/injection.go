package sql

import (
	libinjection "github.com/corazawaf/libinjection-go"
)

// InjectionCheckResult describes a user-supplied identifier that libinjection
// recognises as an injection attempt.
type InjectionCheckResult struct {
	Kind        string // "table" or "field"
	Value       string // the raw value as supplied
	Fingerprint string // libinjection fingerprint of the detected pattern
}

// CheckIdentifierForInjection runs libinjection over a raw, unsanitized
// identifier. It returns nil when no injection pattern is detected.
//
// Identifiers are rejected by the identifier pattern regardless of this check;
// the result exists so callers can record what an attempt looked like.
//
// Example:
//
//	CheckIdentifierForInjection("field", "email")
//	// nil
//
//	CheckIdentifierForInjection("table", "users' OR '1'='1")
//	// &InjectionCheckResult{Kind: "table", Fingerprint: "s&sos"} (or similar)
func CheckIdentifierForInjection(kind, value string) *InjectionCheckResult {
	isSQLi, fingerprint := libinjection.IsSQLi(value)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		Kind:        kind,
		Value:       value,
		Fingerprint: string(fingerprint),
	}
}

// CheckSelection checks a raw table name and field list and returns one result
// per flagged value, table first, fields in input order.
func CheckSelection(table string, fields []string) []*InjectionCheckResult {
	var results []*InjectionCheckResult
	if r := CheckIdentifierForInjection("table", table); r != nil {
		results = append(results, r)
	}
	for _, f := range fields {
		if r := CheckIdentifierForInjection("field", f); r != nil {
			results = append(results, r)
		}
	}
	return results
}

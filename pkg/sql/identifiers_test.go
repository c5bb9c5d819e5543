package sql

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeField(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
		ok       bool
	}{
		{name: "plain identifier", raw: "email", expected: "email", ok: true},
		{name: "leading underscore", raw: "_internal", expected: "_internal", ok: true},
		{name: "surrounding whitespace", raw: "  first_name \t", expected: "first_name", ok: true},
		{name: "double quoted", raw: `"CustomerID"`, expected: "CustomerID", ok: true},
		{name: "single quoted", raw: "'name'", expected: "name", ok: true},
		{name: "trailing semicolon", raw: "id;", expected: "id", ok: true},
		{name: "comment marker stripped", raw: "id--", expected: "id", ok: true},
		{name: "empty", raw: "", ok: false},
		{name: "whitespace only", raw: "   ", ok: false},
		{name: "only stripped characters", raw: `;'"--`, ok: false},
		{name: "leading digit", raw: "1bad", ok: false},
		{name: "hyphen", raw: "also-bad", ok: false},
		{name: "embedded space", raw: "first name", ok: false},
		{name: "injection attempt", raw: "id; DROP TABLE x", ok: false},
		{name: "dotted", raw: "t.id", ok: false},
		{name: "non-ascii letter", raw: "naïve", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SanitizeField(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestSanitizeFields_KeepsOrderAndDuplicates(t *testing.T) {
	got := SanitizeFields([]string{"id", "1bad", " name ", "id", "also-bad", `"email"`})
	assert.Equal(t, []string{"id", "name", "id", "email"}, got)
}

func TestSanitizeFields_AllInvalid(t *testing.T) {
	assert.Empty(t, SanitizeFields([]string{"1bad", "also-bad"}))
	assert.Empty(t, SanitizeFields([]string{"id; DROP TABLE x"}))
	assert.Empty(t, SanitizeFields(nil))
}

func TestSanitizeFields_Idempotent(t *testing.T) {
	inputs := [][]string{
		{"id", "name", "email"},
		{" id ", `"Name"`, "'x'", "y;", "z--", "bad-one", "_ok"},
		{"", "  ", "9lives", "a_1", "a_1"},
	}

	for _, in := range inputs {
		once := SanitizeFields(in)
		twice := SanitizeFields(once)
		assert.Equal(t, once, twice, "input %q", strings.Join(in, ","))
	}
}

func TestStripTableQuotes(t *testing.T) {
	assert.Equal(t, "customers", StripTableQuotes(`"customers"`))
	assert.Equal(t, "public.customers", StripTableQuotes(`'public'.'customers'`))
	assert.Equal(t, "customers; DROP TABLE x", StripTableQuotes(`customers; DROP TABLE x`))
}

func TestValidateTableName(t *testing.T) {
	valid := []string{"customers", "_staging", "public.customers", "Sales.Orders2024"}
	for _, table := range valid {
		assert.NoError(t, ValidateTableName(table), table)
	}

	invalid := []string{
		"",
		"customers; DROP TABLE x",
		"customers WHERE 1=1",
		"1customers",
		"a.b.c",
		"public.",
		".customers",
		"customers--",
		"customers /* x */",
	}
	for _, table := range invalid {
		assert.ErrorIs(t, ValidateTableName(table), ErrInvalidTableName, table)
	}
}

func TestSplitTableName(t *testing.T) {
	schema, name := SplitTableName("customers", "public")
	assert.Equal(t, "public", schema)
	assert.Equal(t, "customers", name)

	schema, name = SplitTableName("sales.orders", "public")
	assert.Equal(t, "sales", schema)
	assert.Equal(t, "orders", name)
}

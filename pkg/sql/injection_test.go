package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckIdentifierForInjection(t *testing.T) {
	tests := []struct {
		name            string
		value           string
		expectInjection bool
	}{
		{name: "plain table", value: "customers", expectInjection: false},
		{name: "plain column", value: "email", expectInjection: false},
		{name: "snake case", value: "order_items", expectInjection: false},
		{name: "empty", value: "", expectInjection: false},
		{name: "classic quote injection", value: "' OR '1'='1", expectInjection: true},
		{name: "drop table injection", value: "'; DROP TABLE users--", expectInjection: true},
		{name: "union select", value: "1 UNION SELECT * FROM passwords", expectInjection: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckIdentifierForInjection("table", tt.value)
			if !tt.expectInjection {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, "table", result.Kind)
			assert.Equal(t, tt.value, result.Value)
			assert.NotEmpty(t, result.Fingerprint)
		})
	}
}

func TestCheckSelection(t *testing.T) {
	results := CheckSelection("customers", []string{"id", "' OR '1'='1", "email"})
	require.Len(t, results, 1)
	assert.Equal(t, "field", results[0].Kind)
	assert.Equal(t, "' OR '1'='1", results[0].Value)

	assert.Empty(t, CheckSelection("customers", []string{"id", "name"}))
}

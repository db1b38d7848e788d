// internal/common/validation/signals_test.go
package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseBundle(t *testing.T, raw string) map[string]interface{} {
	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestValidateSignalBundle_Valid(t *testing.T) {
	doc := parseBundle(t, `{
		"processes": [
			{"id": "p-1", "name": "Invoice Processing", "fte": 8, "volume": 1200, "systemsUsed": "SAP,Excel"},
			{"id": "p-2", "name": "Onboarding", "systemsUsed": ["Workday", "AD"]}
		],
		"painPoints": [
			{"id": "pp-1", "processId": "p-1", "statement": "rekeyed by hand",
			 "frequency": "high", "magnitude": "high", "rootCause": "data", "workarounds": "manual"}
		],
		"useCases": [
			{"id": "uc-1", "name": "OCR Intake Bot", "category": "document processing"}
		]
	}`)

	result, err := ValidateSignalBundle(doc)

	require.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidateSignalBundle_EmptyBundle(t *testing.T) {
	result, err := ValidateSignalBundle(map[string]interface{}{})

	require.NoError(t, err)
	assert.True(t, result.Valid, "all sections are optional")
}

func TestValidateSignalBundle_Violations(t *testing.T) {
	tests := []struct {
		name          string
		raw           string
		errorContains string
	}{
		{
			name:          "process missing name",
			raw:           `{"processes": [{"id": "p-1"}]}`,
			errorContains: "name",
		},
		{
			name:          "negative fte",
			raw:           `{"processes": [{"id": "p-1", "name": "X", "fte": -1}]}`,
			errorContains: "fte",
		},
		{
			name:          "frequency outside enum",
			raw:           `{"painPoints": [{"id": "pp-1", "processId": "p-1", "statement": "s", "frequency": "sometimes"}]}`,
			errorContains: "frequency",
		},
		{
			name:          "uppercase enum value rejected",
			raw:           `{"painPoints": [{"id": "pp-1", "processId": "p-1", "statement": "s", "rootCause": "Data"}]}`,
			errorContains: "rootCause",
		},
		{
			name:          "pain point missing statement",
			raw:           `{"painPoints": [{"id": "pp-1", "processId": "p-1"}]}`,
			errorContains: "statement",
		},
		{
			name:          "unknown top-level section",
			raw:           `{"widgets": []}`,
			errorContains: "widgets",
		},
		{
			name:          "systemsUsed wrong type",
			raw:           `{"processes": [{"id": "p-1", "name": "X", "systemsUsed": 7}]}`,
			errorContains: "systemsUsed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ValidateSignalBundle(parseBundle(t, tt.raw))

			require.NoError(t, err)
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)

			found := false
			for _, msg := range result.Errors {
				if strings.Contains(strings.ToLower(msg), strings.ToLower(tt.errorContains)) {
					found = true
				}
			}
			assert.True(t, found, "expected a violation mentioning %q, got %v", tt.errorContains, result.Errors)
		})
	}
}

func TestValidateSignalBundle_CollectsAllViolations(t *testing.T) {
	doc := parseBundle(t, `{
		"processes": [{"id": "p-1", "fte": -3}],
		"painPoints": [{"id": "pp-1", "processId": "p-1", "statement": "s", "magnitude": "huge"}]
	}`)

	result, err := ValidateSignalBundle(doc)

	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.GreaterOrEqual(t, len(result.Errors), 3, "missing name, bad fte and bad magnitude are all reported")
}

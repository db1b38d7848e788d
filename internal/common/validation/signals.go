// internal/common/validation/signals.go

// Package validation checks raw signal payloads at the system boundary before
// they reach the detection core. The categorical fields use closed
// enumerations here; the detectors' own case normalization remains only as a
// compatibility shim for legacy records that bypassed this gate.
package validation

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var categoricalLevels = []string{"low", "medium", "high"}

var signalBundleSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"processes": map[string]interface{}{
			"type":  "array",
			"items": processSchema,
		},
		"painPoints": map[string]interface{}{
			"type":  "array",
			"items": painPointSchema,
		},
		"useCases": map[string]interface{}{
			"type":  "array",
			"items": useCaseSchema,
		},
	},
}

var processSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"id", "name"},
	"properties": map[string]interface{}{
		"id":          map[string]interface{}{"type": "string", "minLength": 1},
		"name":        map[string]interface{}{"type": "string", "minLength": 1},
		"fte":         map[string]interface{}{"type": "number", "minimum": 0},
		"volume":      map[string]interface{}{"type": "number", "minimum": 0},
		"type":        map[string]interface{}{"type": "string"},
		"systemCount": map[string]interface{}{"type": "integer", "minimum": 0},
		"systemsUsed": map[string]interface{}{
			"anyOf": []interface{}{
				map[string]interface{}{"type": "string"},
				map[string]interface{}{
					"type":  "array",
					"items": map[string]interface{}{"type": "string"},
				},
			},
		},
	},
}

var painPointSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"id", "processId", "statement"},
	"properties": map[string]interface{}{
		"id":        map[string]interface{}{"type": "string", "minLength": 1},
		"processId": map[string]interface{}{"type": "string", "minLength": 1},
		"statement": map[string]interface{}{"type": "string", "minLength": 1},
		"category":  map[string]interface{}{"type": "string"},
		"frequency": map[string]interface{}{"type": "string", "enum": categoricalLevels},
		"magnitude": map[string]interface{}{"type": "string", "enum": categoricalLevels},
		"rootCause": map[string]interface{}{
			"type": "string",
			"enum": []string{"data", "process", "people", "system", "policy"},
		},
		"workarounds": map[string]interface{}{
			"type": "string",
			"enum": []string{"none", "manual", "automated"},
		},
	},
}

var useCaseSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"id", "name"},
	"properties": map[string]interface{}{
		"id":          map[string]interface{}{"type": "string", "minLength": 1},
		"name":        map[string]interface{}{"type": "string", "minLength": 1},
		"category":    map[string]interface{}{"type": "string"},
		"description": map[string]interface{}{"type": "string"},
	},
}

type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// ValidateSignalBundle validates a raw signal document against the bundle
// schema and returns every violation found.
func ValidateSignalBundle(doc map[string]interface{}) (*Result, error) {
	schemaLoader := gojsonschema.NewGoLoader(signalBundleSchema)
	documentLoader := gojsonschema.NewGoLoader(doc)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, err
	}

	if result.Valid() {
		return &Result{Valid: true}, nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		errs = append(errs, strings.TrimSpace(re.Field()+": "+re.Description()))
	}
	return &Result{Valid: false, Errors: errs}, nil
}

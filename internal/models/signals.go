// internal/models/signals.go
package models

import (
	"encoding/json"
	"strings"
)

// ProcessSignal describes a business process's size and complexity attributes
// as captured by the surrounding application.
type ProcessSignal struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	FTE         *float64   `json:"fte,omitempty"`
	Volume      *float64   `json:"volume,omitempty"`
	Type        string     `json:"type,omitempty"`
	SystemCount *int       `json:"systemCount,omitempty"`
	SystemsUsed SystemList `json:"systemsUsed,omitempty"`
}

// DerivedSystemCount returns the explicit system count when present, else the
// number of systems parsed from the systems-used field.
func (p ProcessSignal) DerivedSystemCount() int {
	if p.SystemCount != nil {
		return *p.SystemCount
	}
	return len(p.SystemsUsed)
}

// SystemList holds the names of systems a process touches. Legacy records
// store this as a single delimited string, newer ones as a JSON array; both
// forms unmarshal into a cleaned list.
type SystemList []string

func (s *SystemList) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err == nil {
		*s = ParseSystemList(raw)
		return nil
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	cleaned := make(SystemList, 0, len(entries))
	for _, e := range entries {
		if t := strings.TrimSpace(e); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	*s = cleaned
	return nil
}

// ParseSystemList splits a delimited systems string on commas, semicolons or
// pipes, trimming whitespace and dropping empty entries.
func ParseSystemList(raw string) SystemList {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	out := make(SystemList, 0, len(fields))
	for _, f := range fields {
		if t := strings.TrimSpace(f); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// PainPointSignal is a recorded operational problem tied to a process. The
// categorical fields are free text from legacy imports; matching against them
// is case-insensitive.
type PainPointSignal struct {
	ID          string `json:"id"`
	ProcessID   string `json:"processId"`
	Statement   string `json:"statement"`
	Category    string `json:"category,omitempty"`
	Frequency   string `json:"frequency,omitempty"`
	Magnitude   string `json:"magnitude,omitempty"`
	RootCause   string `json:"rootCause,omitempty"`
	Workarounds string `json:"workarounds,omitempty"`
}

// UseCaseSignal is a candidate automation or technology solution.
type UseCaseSignal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

// internal/detectors/structural/detector_test.go
package structural

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opportunity-engine/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func createProcess(id, name string, fte, volume *float64) models.ProcessSignal {
	return models.ProcessSignal{
		ID:     id,
		Name:   name,
		FTE:    fte,
		Volume: volume,
	}
}

func triggersOf(opps []models.Opportunity) []string {
	out := make([]string, 0, len(opps))
	for _, o := range opps {
		out = append(out, o.Trigger)
	}
	return out
}

// ==========================
// Core Functionality Tests
// ==========================

func TestDetect_SingleTrigger(t *testing.T) {
	tests := []struct {
		name            string
		process         models.ProcessSignal
		expectedTrigger string
		expectedValue   float64
	}{
		{
			name:            "fte above threshold only",
			process:         createProcess("p-1", "Invoice Processing", floatPtr(8), floatPtr(500)),
			expectedTrigger: models.TriggerFTE,
			expectedValue:   8,
		},
		{
			name:            "volume above threshold reuses fte as value",
			process:         createProcess("p-2", "Order Entry", floatPtr(2), floatPtr(1500)),
			expectedTrigger: models.TriggerVolume,
			expectedValue:   2,
		},
		{
			name: "volume trigger with absent fte falls back to zero value",
			process: models.ProcessSignal{
				ID:     "p-3",
				Name:   "Returns Handling",
				Volume: floatPtr(2000),
			},
			expectedTrigger: models.TriggerVolume,
			expectedValue:   0,
		},
		{
			name: "system count derived from delimited string",
			process: models.ProcessSignal{
				ID:          "p-4",
				Name:        "Month-End Close",
				SystemsUsed: models.ParseSystemList("SAP, Excel; Outlook | Sharepoint"),
			},
			expectedTrigger: models.TriggerSystemCount,
			expectedValue:   0,
		},
		{
			name: "explicit system count wins over list",
			process: models.ProcessSignal{
				ID:          "p-5",
				Name:        "Procurement",
				FTE:         floatPtr(1),
				SystemCount: intPtr(6),
				SystemsUsed: models.SystemList{"only-one"},
			},
			expectedTrigger: models.TriggerSystemCount,
			expectedValue:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opps := Detect([]models.ProcessSignal{tt.process}, nil)

			require.Len(t, opps, 1)
			assert.Equal(t, tt.expectedTrigger, opps[0].Trigger)
			assert.Equal(t, tt.expectedValue, opps[0].EstimatedValue)
			assert.Equal(t, models.CategoryStructural, opps[0].Category)
			assert.Equal(t, tt.process.ID, opps[0].ProcessID)
		})
	}
}

func TestDetect_AllTriggersIndependently(t *testing.T) {
	process := models.ProcessSignal{
		ID:          "p-all",
		Name:        "Claims Processing",
		FTE:         floatPtr(10),
		Volume:      floatPtr(5000),
		SystemsUsed: models.ParseSystemList("a,b,c,d"),
	}

	opps := Detect([]models.ProcessSignal{process}, nil)

	require.Len(t, opps, 3)
	assert.ElementsMatch(t,
		[]string{models.TriggerFTE, models.TriggerVolume, models.TriggerSystemCount},
		triggersOf(opps),
	)
	for _, o := range opps {
		assert.Equal(t, "p-all", o.ProcessID)
		assert.Equal(t, 10.0, o.EstimatedValue, "every trigger reuses the fte figure")
	}
}

func TestDetect_ThresholdBoundaries(t *testing.T) {
	// Values exactly at the threshold must not fire.
	process := models.ProcessSignal{
		ID:          "p-edge",
		Name:        "Edge",
		FTE:         floatPtr(5),
		Volume:      floatPtr(1000),
		SystemsUsed: models.ParseSystemList("a,b,c"),
	}

	opps := Detect([]models.ProcessSignal{process}, nil)
	assert.Empty(t, opps)
}

func TestDetect_MissingSignalsNeverFire(t *testing.T) {
	opps := Detect([]models.ProcessSignal{
		{ID: "p-empty", Name: "No Data"},
	}, nil)

	assert.Empty(t, opps)
}

func TestDetect_CustomThresholds(t *testing.T) {
	processes := []models.ProcessSignal{
		createProcess("p-1", "Small Team", floatPtr(3), nil),
	}

	opps := Detect(processes, &Thresholds{FTE: floatPtr(2)})
	require.Len(t, opps, 1)
	assert.Equal(t, models.TriggerFTE, opps[0].Trigger)
}

func TestDetect_DisabledRules(t *testing.T) {
	process := models.ProcessSignal{
		ID:          "p-1",
		Name:        "Everything High",
		FTE:         floatPtr(100),
		Volume:      floatPtr(100000),
		SystemsUsed: models.ParseSystemList("a,b,c,d,e"),
	}

	// Only the volume rule is configured; fte and systemCount are disabled.
	opps := Detect([]models.ProcessSignal{process}, &Thresholds{Volume: floatPtr(1000)})

	require.Len(t, opps, 1)
	assert.Equal(t, models.TriggerVolume, opps[0].Trigger)
}

func TestDetect_NilThresholdsUsesDefaults(t *testing.T) {
	defaults := DefaultThresholds()
	require.NotNil(t, defaults.FTE)
	require.NotNil(t, defaults.Volume)
	require.NotNil(t, defaults.SystemCount)
	assert.Equal(t, 5.0, *defaults.FTE)
	assert.Equal(t, 1000.0, *defaults.Volume)
	assert.Equal(t, 3, *defaults.SystemCount)
}

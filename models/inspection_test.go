package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspectionComputeStatus(t *testing.T) {
	cases := []struct {
		name  string
		items []ChecklistItem
		want  string
	}{
		{"no items", nil, InspectionStatusScheduled},
		{"no results recorded yet", []ChecklistItem{{Result: ""}, {Result: ""}}, InspectionStatusScheduled},
		{"all na stays scheduled", []ChecklistItem{{Result: ChecklistResultNA}}, InspectionStatusScheduled},
		{"all pass", []ChecklistItem{{Result: ChecklistResultPass}, {Result: ChecklistResultPass}}, InspectionStatusPassed},
		{"pass with na", []ChecklistItem{{Result: ChecklistResultPass}, {Result: ChecklistResultNA}}, InspectionStatusPassed},
		{"all fail", []ChecklistItem{{Result: ChecklistResultFail}}, InspectionStatusFailed},
		{"mixed", []ChecklistItem{{Result: ChecklistResultPass}, {Result: ChecklistResultFail}}, InspectionStatusPartial},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			insp := Inspection{Items: c.items}
			insp.ComputeStatus()
			assert.Equal(t, c.want, insp.Status)
		})
	}
}

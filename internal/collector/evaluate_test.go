package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pulsemon/pulsemon/internal/model"
)

func TestEvaluate(t *testing.T) {
	th := model.Threshold{Warn: 80, Crit: 90}

	cases := []struct {
		name  string
		value float64
		want  model.Severity
	}{
		{"below warn", 79, model.SeverityOK},
		{"equal to warn", 80, model.SeverityWarning},
		{"between warn and crit", 89.99, model.SeverityWarning},
		{"equal to crit", 90, model.SeverityCritical},
		{"above crit", 100, model.SeverityCritical},
		{"zero", 0, model.SeverityOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Evaluate(tc.value, th))
		})
	}
}

func TestEvaluatePacketLoss(t *testing.T) {
	// Boundaries are strictly greater-than, unlike the >= thresholds above.
	cases := []struct {
		name string
		loss float64
		want model.Severity
	}{
		{"no loss", 0, model.SeverityOK},
		{"equal to warn boundary", 20, model.SeverityOK},
		{"just above warn boundary", 21, model.SeverityWarning},
		{"equal to crit boundary", 50, model.SeverityWarning},
		{"just above crit boundary", 51, model.SeverityCritical},
		{"total loss", 100, model.SeverityCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EvaluatePacketLoss(tc.loss))
		})
	}
}

func TestSeverityOrdering(t *testing.T) {
	assert.True(t, model.SeverityOK < model.SeverityWarning)
	assert.True(t, model.SeverityWarning < model.SeverityCritical)
}

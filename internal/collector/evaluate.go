package collector

import (
	"github.com/pulsemon/pulsemon/internal/model"
)

// Packet loss boundaries are fixed, not configurable, and strictly
// greater-than — a reading of exactly 50 is WARN, not CRIT.
const (
	packetLossWarn = 20.0
	packetLossCrit = 50.0
)

// Evaluate classifies a value against a warn/crit threshold pair using
// greater-or-equal comparisons: value >= crit is CRIT, value >= warn is WARN.
func Evaluate(value float64, th model.Threshold) model.Severity {
	switch {
	case value >= th.Crit:
		return model.SeverityCritical
	case value >= th.Warn:
		return model.SeverityWarning
	default:
		return model.SeverityOK
	}
}

// EvaluatePacketLoss classifies a loss percentage against the fixed strict
// boundaries (>50 CRIT, >20 WARN).
func EvaluatePacketLoss(loss float64) model.Severity {
	switch {
	case loss > packetLossCrit:
		return model.SeverityCritical
	case loss > packetLossWarn:
		return model.SeverityWarning
	default:
		return model.SeverityOK
	}
}

package model

import "time"

// Severity is the result of evaluating a sample. Severities are totally
// ordered: OK < SeverityWarning < SeverityCritical.
type Severity int

const (
	SeverityOK Severity = iota
	SeverityWarning
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARN"
	case SeverityCritical:
		return "CRIT"
	default:
		return "OK"
	}
}

// AlertEvent is one alert raised within a tick. Created and consumed in the
// same tick, never persisted.
type AlertEvent struct {
	Severity  Severity
	Message   string
	Timestamp time.Time
}

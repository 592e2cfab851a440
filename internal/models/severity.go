package models

import "fmt"

// Severity is the ordered health rating produced by a heuristic.
// Higher ranks are worse; the zero value is SeverityNone.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityLow
	SeverityModerate
	SeveritySevere
	SeverityCritical
)

var severityNames = [...]string{
	SeverityNone:     "NONE",
	SeverityLow:      "LOW",
	SeverityModerate: "MODERATE",
	SeveritySevere:   "SEVERE",
	SeverityCritical: "CRITICAL",
}

func (s Severity) String() string {
	if s < SeverityNone || s > SeverityCritical {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// MinSeverity returns the less severe of a and b.
func MinSeverity(a, b Severity) Severity {
	if a < b {
		return a
	}
	return b
}

// MaxSeverity returns the more severe of a and b.
func MaxSeverity(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}

// SeverityAscending rates value on a ladder where larger values are worse.
// Buckets are [low,moderate), [moderate,severe), [severe,critical); values
// below low are NONE and values at or above critical are CRITICAL.
func SeverityAscending(value, low, moderate, severe, critical int64) Severity {
	switch {
	case value >= critical:
		return SeverityCritical
	case value >= severe:
		return SeveritySevere
	case value >= moderate:
		return SeverityModerate
	case value >= low:
		return SeverityLow
	default:
		return SeverityNone
	}
}

// SeverityDescending rates value on a ladder where smaller values are worse.
// Buckets are [moderate,low), [severe,moderate), [critical,severe); values
// at or above low are NONE and values below critical are CRITICAL.
func SeverityDescending(value, low, moderate, severe, critical int64) Severity {
	switch {
	case value < critical:
		return SeverityCritical
	case value < severe:
		return SeveritySevere
	case value < moderate:
		return SeverityModerate
	case value < low:
		return SeverityLow
	default:
		return SeverityNone
	}
}

// Ladder holds the four cutoffs of a severity step function, ordered from
// the LOW cutoff to the CRITICAL cutoff.
type Ladder struct {
	Low      int64
	Moderate int64
	Severe   int64
	Critical int64
}

// Ascending rates value with larger values being worse.
func (l Ladder) Ascending(value int64) Severity {
	return SeverityAscending(value, l.Low, l.Moderate, l.Severe, l.Critical)
}

// Descending rates value with smaller values being worse.
func (l Ladder) Descending(value int64) Severity {
	return SeverityDescending(value, l.Low, l.Moderate, l.Severe, l.Critical)
}

// Validate reports whether the cutoffs are strictly monotone in the
// direction the ladder is read.
func (l Ladder) Validate(ascending bool) error {
	c := [4]int64{l.Low, l.Moderate, l.Severe, l.Critical}
	for i := 1; i < len(c); i++ {
		if ascending && c[i] <= c[i-1] {
			return fmt.Errorf("ascending cutoffs must increase: %v", c)
		}
		if !ascending && c[i] >= c[i-1] {
			return fmt.Errorf("descending cutoffs must decrease: %v", c)
		}
	}
	return nil
}

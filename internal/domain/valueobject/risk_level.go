package valueobject

import "fmt"

// RiskLevel is an immutable value object for the coarse risk band of an assessment.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "Low"}
	RiskLevelMedium = RiskLevel{value: "Medium"}
	RiskLevelHigh   = RiskLevel{value: "High"}
)

// Band boundaries on the risk probability.
const (
	mediumRiskFrom = 0.30
	highRiskFrom   = 0.60
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "Low":
		return RiskLevelLow, nil
	case "Medium":
		return RiskLevelMedium, nil
	case "High":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %q", s)
	}
}

// RiskLevelFromProbability buckets a risk probability: below 0.30 is Low,
// below 0.60 is Medium, anything else is High.
func RiskLevelFromProbability(p float64) RiskLevel {
	switch {
	case p < mediumRiskFrom:
		return RiskLevelLow
	case p < highRiskFrom:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

func (r RiskLevel) String() string {
	return r.value
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}

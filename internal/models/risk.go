package models

type RiskLevel string

const (
	RiskLevelLow     RiskLevel = "Low"
	RiskLevelMedium  RiskLevel = "Medium"
	RiskLevelHigh    RiskLevel = "High"
	RiskLevelExtreme RiskLevel = "Extreme"
)

// severityRank orders levels by severity: Low < Medium < High < Extreme.
// Sorting and safety-recommendation lookups depend on this ordering.
var severityRank = map[RiskLevel]int{
	RiskLevelLow:     0,
	RiskLevelMedium:  1,
	RiskLevelHigh:    2,
	RiskLevelExtreme: 3,
}

// SeverityRank returns the severity position of l; unknown levels rank
// below Low so malformed remote labels never outrank real assessments.
func (l RiskLevel) SeverityRank() int {
	if r, ok := severityRank[l]; ok {
		return r
	}
	return -1
}

func (l RiskLevel) String() string { return string(l) }

// ParseRiskLevel maps a categorical label to a RiskLevel. Unrecognized
// labels degrade to Low, matching how the remote model's response is read.
func ParseRiskLevel(s string) RiskLevel {
	switch s {
	case "Extreme":
		return RiskLevelExtreme
	case "High":
		return RiskLevelHigh
	case "Medium":
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

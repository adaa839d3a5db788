package core

// Severity classifies how bad a finding (or the merged result) is.
type Severity string

const (
	SeverityHealthy  Severity = "healthy"
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// SeverityRank returns the numeric order of a severity (healthy lowest).
// Unknown severities rank below healthy so they never dominate a merge.
func SeverityRank(s Severity) int {
	switch s {
	case SeverityHealthy:
		return 0
	case SeverityInfo:
		return 1
	case SeverityWarning:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// ValidSeverity checks if a severity string is valid.
func ValidSeverity(s Severity) bool {
	return SeverityRank(s) >= 0
}

// MaxSeverity returns the higher-ranked of two severities.
func MaxSeverity(a, b Severity) Severity {
	if SeverityRank(b) > SeverityRank(a) {
		return b
	}
	return a
}

// SeverityDistance returns the absolute rank distance between two severities.
func SeverityDistance(a, b Severity) int {
	d := SeverityRank(a) - SeverityRank(b)
	if d < 0 {
		return -d
	}
	return d
}

// String returns the string representation of the severity.
func (s Severity) String() string {
	return string(s)
}

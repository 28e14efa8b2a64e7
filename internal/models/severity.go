package models

import (
	"encoding/json"
	"strings"
)

// Severity is the triage level assigned by the analyzer.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityModerate Severity = "Moderate"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

var knownSeverities = []Severity{
	SeverityLow,
	SeverityMedium,
	SeverityModerate,
	SeverityHigh,
	SeverityCritical,
}

// KnownSeverities lists the levels offered as dashboard filters.
func KnownSeverities() []Severity {
	return append([]Severity(nil), knownSeverities...)
}

// ParseSeverity matches known levels case-insensitively and returns the canonical
// spelling. Unknown values are returned trimmed but otherwise untouched.
func ParseSeverity(value string) Severity {
	trimmed := strings.TrimSpace(value)
	for _, s := range knownSeverities {
		if strings.EqualFold(trimmed, string(s)) {
			return s
		}
	}
	return Severity(trimmed)
}

// UnmarshalJSON canonicalises the wire value.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseSeverity(raw)
	return nil
}

// ClassKey derives the presentation key used for severity styling: "severity-"
// followed by the lowercased level with its first space turned into a hyphen.
func (s Severity) ClassKey() string {
	return "severity-" + strings.Replace(strings.ToLower(string(s)), " ", "-", 1)
}

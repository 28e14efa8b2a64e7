package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// CaseRecord is one historical submission as listed by the analyzer.
type CaseRecord struct {
	Timestamp string   `json:"timestamp"`
	Name      string   `json:"name"`
	Age       Age      `json:"age"`
	Language  Language `json:"language,omitempty"`
	Severity  Severity `json:"severity"`
	Symptoms  string   `json:"symptoms"`
}

// EffectiveLanguage returns the record language, or LanguageUnknown when absent.
func (r CaseRecord) EffectiveLanguage() Language {
	if strings.TrimSpace(string(r.Language)) == "" {
		return LanguageUnknown
	}
	return r.Language
}

// Age is a non-negative age in years. The case log stores every column as text,
// so it decodes from either a JSON number or a numeric string.
type Age int

// UnmarshalJSON accepts 42, "42" and null. Anything unparseable or negative decodes as 0.
func (a *Age) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}

	raw := string(data)
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil || n < 0 {
		*a = 0
		return nil
	}
	*a = Age(int(n))
	return nil
}

// FilterCriteria is the language/severity predicate applied on the dashboard.
// The zero value is treated as {all, all}.
type FilterCriteria struct {
	Language string `json:"language"`
	Severity string `json:"severity"`
}

// FilterAll is the selection that disables a predicate.
const FilterAll = "all"

// AllCases returns criteria matching every record.
func AllCases() FilterCriteria {
	return FilterCriteria{Language: FilterAll, Severity: FilterAll}
}

// Normalized replaces empty selections with FilterAll.
func (f FilterCriteria) Normalized() FilterCriteria {
	if strings.TrimSpace(f.Language) == "" {
		f.Language = FilterAll
	}
	if strings.TrimSpace(f.Severity) == "" {
		f.Severity = FilterAll
	}
	return f
}

// Matches reports whether the record passes both predicates.
func (f FilterCriteria) Matches(r CaseRecord) bool {
	f = f.Normalized()
	if !strings.EqualFold(f.Language, FilterAll) && !strings.EqualFold(f.Language, string(r.EffectiveLanguage())) {
		return false
	}
	if !strings.EqualFold(f.Severity, FilterAll) && !strings.EqualFold(f.Severity, string(r.Severity)) {
		return false
	}
	return true
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseRecordDecodesStringColumns(t *testing.T) {
	payload := `{"timestamp":"2025-03-01 10:00:00","name":"Ana","age":"34","language":"Spanish","severity":"high","symptoms":"fever"}`

	var rec CaseRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))

	assert.Equal(t, Age(34), rec.Age)
	assert.Equal(t, SeverityHigh, rec.Severity)
	assert.Equal(t, LanguageSpanish, rec.EffectiveLanguage())
}

func TestAgeDecoding(t *testing.T) {
	cases := map[string]Age{
		`30`:     30,
		`"41"`:   41,
		`" 7 "`:  7,
		`null`:   0,
		`"n/a"`:  0,
		`-3`:     0,
		`"12.0"`: 12,
	}
	for input, want := range cases {
		var got Age
		require.NoError(t, json.Unmarshal([]byte(input), &got), input)
		assert.Equal(t, want, got, input)
	}
}

func TestEffectiveLanguageDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, LanguageUnknown, CaseRecord{}.EffectiveLanguage())
	assert.Equal(t, LanguageUnknown, CaseRecord{Language: "  "}.EffectiveLanguage())
}

func TestClassKey(t *testing.T) {
	assert.Equal(t, "severity-moderate", SeverityModerate.ClassKey())
	assert.Equal(t, "severity-high", ParseSeverity("HIGH").ClassKey())
	assert.Equal(t, "severity-not-determined", Severity("Not Determined").ClassKey())
	assert.Equal(t, "severity-very-high risk", Severity("Very High Risk").ClassKey())
}

func TestParseSeverityKeepsUnknownValues(t *testing.T) {
	assert.Equal(t, SeverityCritical, ParseSeverity(" critical "))
	assert.Equal(t, Severity("Not Determined"), ParseSeverity("Not Determined"))
}

func TestFilterCriteriaMatches(t *testing.T) {
	english := CaseRecord{Language: LanguageEnglish, Severity: SeverityLow}
	blank := CaseRecord{Severity: SeverityHigh}

	assert.True(t, AllCases().Matches(english))
	assert.True(t, FilterCriteria{}.Matches(blank))

	unknown := FilterCriteria{Language: string(LanguageUnknown)}
	assert.True(t, unknown.Matches(blank))
	assert.False(t, unknown.Matches(english))

	both := FilterCriteria{Language: "English", Severity: "High"}
	assert.False(t, both.Matches(english))
	assert.True(t, FilterCriteria{Language: "English", Severity: "low"}.Matches(english))
}

func TestParseLanguage(t *testing.T) {
	lang, ok := ParseLanguage("french")
	assert.True(t, ok)
	assert.Equal(t, LanguageFrench, lang)

	lang, ok = ParseLanguage("Klingon")
	assert.False(t, ok)
	assert.Equal(t, Language("Klingon"), lang)
}

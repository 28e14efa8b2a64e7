package models

import "strings"

// Language names a UI/recommendation language as the analyzer spells it ("English").
type Language string

const (
	LanguageEnglish    Language = "English"
	LanguageSpanish    Language = "Spanish"
	LanguageFrench     Language = "French"
	LanguageGerman     Language = "German"
	LanguagePortuguese Language = "Portuguese"
	LanguageItalian    Language = "Italian"
	LanguageChinese    Language = "Chinese"
	LanguageJapanese   Language = "Japanese"
	LanguageArabic     Language = "Arabic"
	LanguageHindi      Language = "Hindi"

	// LanguageUnknown stands in for records that carry no language.
	LanguageUnknown Language = "unknown"
)

// BaseLanguage is used whenever a requested language has no table.
const BaseLanguage = LanguageEnglish

// ParseLanguage matches a name case-insensitively against the supported set.
func ParseLanguage(value string) (Language, bool) {
	trimmed := strings.TrimSpace(value)
	for _, l := range SupportedLanguages() {
		if strings.EqualFold(trimmed, string(l)) {
			return l, true
		}
	}
	return Language(trimmed), false
}

// SupportedLanguages returns the languages the analyzer can answer in.
func SupportedLanguages() []Language {
	return []Language{
		LanguageEnglish,
		LanguageSpanish,
		LanguageFrench,
		LanguageGerman,
		LanguagePortuguese,
		LanguageItalian,
		LanguageChinese,
		LanguageJapanese,
		LanguageArabic,
		LanguageHindi,
	}
}

package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mindmate/triage-client/internal/models"
)

func TestEmbeddedPackCoversSupportedLanguages(t *testing.T) {
	cat := Default()
	for _, lang := range models.SupportedLanguages() {
		table, ok := cat.Lookup(lang)
		require.True(t, ok, lang)
		assert.Equal(t, lang, table.Language)
		assert.NotEqual(t, UnknownFlag, cat.Flag(lang), lang)
		_, err := language.Parse(table.Locale)
		assert.NoError(t, err, lang)
	}
}

func TestBaseTableHasEveryStaticKey(t *testing.T) {
	table, _ := Default().Lookup(models.BaseLanguage)
	for _, key := range StaticKeys() {
		assert.NotEqual(t, key, table.Text(key), "missing english string for %s", key)
	}
}

func TestUnsupportedLanguageFallsBackToBase(t *testing.T) {
	cat := Default()
	table, ok := cat.Lookup("Klingon")

	assert.False(t, ok)
	assert.Equal(t, models.LanguageEnglish, table.Language)
	assert.Equal(t, "Get Recommendation", table.Text(KeySubmit))
	assert.Equal(t, language.AmericanEnglish, table.Tag())
}

func TestMissingKeyFallsBackPerKey(t *testing.T) {
	table, ok := Default().Lookup(models.LanguageFrench)
	require.True(t, ok)

	assert.Equal(t, "Obtenir une recommandation", table.Text(KeySubmit))
	// The French table carries no title of its own.
	assert.Equal(t, "MindMate AI", table.Text(KeyTitle))
	assert.Equal(t, "no.such.key", table.Text("no.such.key"))
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	table, ok := Default().Lookup("spanish")
	assert.True(t, ok)
	assert.Equal(t, models.LanguageSpanish, table.Language)
	assert.Equal(t, "Analizando...", table.Text(KeyAnalyzing))
}

func TestSeverityName(t *testing.T) {
	table, _ := Default().Lookup(models.LanguageGerman)
	assert.Equal(t, "Mäßig", table.SeverityName(models.SeverityModerate))
	assert.Equal(t, "Not Determined", table.SeverityName("Not Determined"))
}

func TestTextf(t *testing.T) {
	table, _ := Default().Lookup(models.LanguageEnglish)
	assert.Equal(t, "Page 2 of 3", table.Textf(KeyPageInfo, 2, 3))
}

func TestLoadMergesOverridePack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "locales.yaml")
	pack := `
languages:
  English:
    strings:
      form.submit: "Send"
  Dutch:
    flag: "🇳🇱"
    locale: nl-NL
    strings:
      form.submit: "Versturen"
`
	require.NoError(t, os.WriteFile(path, []byte(pack), 0o600))

	cat, err := Load(path)
	require.NoError(t, err)

	en, _ := cat.Lookup(models.LanguageEnglish)
	assert.Equal(t, "Send", en.Text(KeySubmit))
	assert.Equal(t, "Analyzing...", en.Text(KeyAnalyzing))

	nl, ok := cat.Lookup("Dutch")
	require.True(t, ok)
	assert.Equal(t, "Versturen", nl.Text(KeySubmit))
	assert.Equal(t, "Previous", nl.Text(KeyPrev))
	assert.Equal(t, models.Language("Dutch"), cat.Languages()[len(cat.Languages())-1])
}

func TestLoadMissingOverrideIsIgnored(t *testing.T) {
	cat, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Len(t, cat.Languages(), len(models.SupportedLanguages()))
}

func TestLoadRejectsBrokenPack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("languages: [oops"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

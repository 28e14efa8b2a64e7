package i18n

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/mindmate/triage-client/internal/models"
)

//go:embed locales.yaml
var embeddedPack []byte

// UnknownFlag is shown for records whose language has no flag.
const UnknownFlag = "🌐"

// PackFile is the YAML root of a locale pack.
type PackFile struct {
	Base      string                `yaml:"base"`
	Languages map[string]LocaleFile `yaml:"languages"`
}

// LocaleFile is one language entry of a pack.
type LocaleFile struct {
	Flag    string            `yaml:"flag"`
	Locale  string            `yaml:"locale"`
	Strings map[string]string `yaml:"strings"`
}

// Catalog holds every localized table. It is read-only after construction.
type Catalog struct {
	base    models.Language
	locales map[models.Language]LocaleFile
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog built from the embedded pack.
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := parse(embeddedPack)
		if err != nil {
			panic(fmt.Sprintf("embedded locale pack: %v", err))
		}
		defaultCatalog = cat
	})
	return defaultCatalog
}

// Load returns the embedded catalog, with the pack at path merged over it when
// path is set. A missing override file is not an error.
func Load(path string) (*Catalog, error) {
	cat, err := parse(embeddedPack)
	if err != nil {
		return nil, fmt.Errorf("parse embedded locale pack: %w", err)
	}
	if path == "" {
		return cat, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cat, nil
		}
		return nil, fmt.Errorf("read locale pack: %w", err)
	}
	override, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse locale pack %s: %w", path, err)
	}
	cat.merge(override)
	return cat, nil
}

func parse(data []byte) (*Catalog, error) {
	var pack PackFile
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, err
	}
	cat := &Catalog{
		base:    models.BaseLanguage,
		locales: make(map[models.Language]LocaleFile, len(pack.Languages)),
	}
	if pack.Base != "" {
		cat.base = models.Language(pack.Base)
	}
	for name, loc := range pack.Languages {
		if loc.Strings == nil {
			loc.Strings = map[string]string{}
		}
		cat.locales[models.Language(name)] = loc
	}
	return cat, nil
}

func (c *Catalog) merge(other *Catalog) {
	for lang, loc := range other.locales {
		existing, ok := c.locales[lang]
		if !ok {
			c.locales[lang] = loc
			continue
		}
		if loc.Flag != "" {
			existing.Flag = loc.Flag
		}
		if loc.Locale != "" {
			existing.Locale = loc.Locale
		}
		merged := make(map[string]string, len(existing.Strings)+len(loc.Strings))
		for k, v := range existing.Strings {
			merged[k] = v
		}
		for k, v := range loc.Strings {
			merged[k] = v
		}
		existing.Strings = merged
		c.locales[lang] = existing
	}
}

// Base returns the fallback language.
func (c *Catalog) Base() models.Language { return c.base }

// Lookup resolves the table for lang. Unknown languages resolve to the base
// table and report false; the lookup itself never fails.
func (c *Catalog) Lookup(lang models.Language) (Table, bool) {
	resolved, ok := c.resolve(lang)
	return Table{
		Language: resolved,
		Flag:     c.locales[resolved].Flag,
		Locale:   c.locales[resolved].Locale,
		strings:  c.locales[resolved].Strings,
		base:     c.locales[c.base].Strings,
	}, ok
}

func (c *Catalog) resolve(lang models.Language) (models.Language, bool) {
	if _, ok := c.locales[lang]; ok {
		return lang, true
	}
	for known := range c.locales {
		if strings.EqualFold(string(known), strings.TrimSpace(string(lang))) {
			return known, true
		}
	}
	return c.base, false
}

// Languages lists the languages with a table, supported languages first in
// their canonical order, extras from override packs sorted after them.
func (c *Catalog) Languages() []models.Language {
	out := make([]models.Language, 0, len(c.locales))
	seen := make(map[models.Language]bool, len(c.locales))
	for _, l := range models.SupportedLanguages() {
		if _, ok := c.locales[l]; ok {
			out = append(out, l)
			seen[l] = true
		}
	}
	extra := make([]models.Language, 0)
	for l := range c.locales {
		if !seen[l] {
			extra = append(extra, l)
		}
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}

// Flag returns the flag for lang, or UnknownFlag.
func (c *Catalog) Flag(lang models.Language) string {
	if loc, ok := c.locales[lang]; ok && loc.Flag != "" {
		return loc.Flag
	}
	return UnknownFlag
}

// Table is a resolved view of one language with per-key fallback to the base language.
type Table struct {
	Language models.Language
	Flag     string
	Locale   string

	strings map[string]string
	base    map[string]string
}

// Text returns the localized string for key. Missing keys fall back to the base
// language, then to the key itself.
func (t Table) Text(key string) string {
	if v, ok := t.strings[key]; ok && v != "" {
		return v
	}
	if v, ok := t.base[key]; ok && v != "" {
		return v
	}
	return key
}

// Textf formats the localized string for key.
func (t Table) Textf(key string, args ...any) string {
	return fmt.Sprintf(t.Text(key), args...)
}

// SeverityName localizes a severity level. Levels without a translation are
// returned as received.
func (t Table) SeverityName(s models.Severity) string {
	key := "severity." + strings.ToLower(string(s))
	if v := t.Text(key); v != key {
		return v
	}
	return string(s)
}

// Strings returns every static string of the table, fallbacks applied.
func (t Table) Strings() map[string]string {
	out := make(map[string]string, len(StaticKeys()))
	for _, key := range StaticKeys() {
		out[key] = t.Text(key)
	}
	return out
}

// Tag parses the table locale, defaulting to American English.
func (t Table) Tag() language.Tag {
	if t.Locale == "" {
		return language.AmericanEnglish
	}
	tag, err := language.Parse(t.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// localeFS embeds the YAML translation files from the locales directory.
//
//go:embed locales/*.yaml
var localeFS embed.FS

// Bundle holds every embedded translation.
type Bundle struct {
	bundle *i18n.Bundle
}

// NewBundle parses the embedded locale files. English is the default
// language.
func NewBundle() (*Bundle, error) {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", f.Name(), err)
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", f.Name(), err)
		}
	}

	return &Bundle{bundle: b}, nil
}

// Languages lists the language tags that have translations.
func (b *Bundle) Languages() []string {
	tags := b.bundle.LanguageTags()
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = t.String()
	}
	return out
}

// Localizer returns a Translator for the first supported language in
// langs. Each entry may be a tag ("de") or an Accept-Language header value.
func (b *Bundle) Localizer(langs ...string) *Localizer {
	return &Localizer{
		localizer: i18n.NewLocalizer(b.bundle, langs...),
		fallback:  Fallback{},
	}
}

// Localizer translates through go-i18n and falls back to the built-in
// English sentences for keys the bundle does not know.
type Localizer struct {
	localizer *i18n.Localizer
	fallback  Translator
}

// compile-time interface check
var _ Translator = (*Localizer)(nil)

// Translate implements Translator.
func (l *Localizer) Translate(key string, params map[string]any) string {
	msg, err := l.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: params,
	})
	if err != nil || strings.TrimSpace(msg) == "" {
		return l.fallback.Translate(key, params)
	}
	return msg
}

// Package i18n provides the message catalogue for every human-readable string lavy prints.
package i18n

import (
	"embed"
	"path"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/language"
)

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "zh"

// ErrUnsupportedLanguage is returned when no catalogue exists for the requested language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

//go:embed locales/*.toml
var locales embed.FS

// Data carries template values for a message.
type Data = map[string]any

// Translator resolves message IDs against the embedded catalogues.
type Translator struct {
	localizer *goi18n.Localizer
	lang      string
}

// New returns a translator for lang. An empty lang selects DefaultLanguage.
// Region and script subtags are ignored, so "zh-CN" and "en_US.UTF-8" resolve.
func New(lang string) (*Translator, error) {
	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}

	base := normalize(lang)
	if !slices.Contains(languages(bundle), base) {
		return nil, errors.Wrapf(ErrUnsupportedLanguage, "%q", lang)
	}

	return &Translator{
		localizer: goi18n.NewLocalizer(bundle, base, DefaultLanguage),
		lang:      base,
	}, nil
}

// Default returns the DefaultLanguage translator. The catalogues are embedded,
// so failure here is a build defect.
func Default() *Translator {
	t, err := New(DefaultLanguage)
	if err != nil {
		panic(err)
	}

	return t
}

// Fallback returns a translator for lang, or the default one when lang is unsupported.
func Fallback(lang string) *Translator {
	t, err := New(lang)
	if err != nil {
		return Default()
	}

	return t
}

// Language returns the resolved base language.
func (t *Translator) Language() string {
	return t.lang
}

// T renders the message id. Unknown IDs render as the ID itself.
func (t *Translator) T(id string, data ...Data) string {
	cfg := &goi18n.LocalizeConfig{MessageID: id}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}

	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		return id
	}

	return msg
}

// YesNo renders a boolean as the localized yes or no.
func (t *Translator) YesNo(v bool) string {
	if v {
		return t.T("yes")
	}

	return t.T("no")
}

// Languages lists the languages with an embedded catalogue.
func Languages() []string {
	bundle, err := newBundle()
	if err != nil {
		return nil
	}

	return languages(bundle)
}

func newBundle() (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(language.Chinese)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, errors.Wrap(err, "failed to read embedded locales")
	}

	for _, entry := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, path.Join("locales", entry.Name())); err != nil {
			return nil, errors.Wrapf(err, "failed to load locale %s", entry.Name())
		}
	}

	return bundle, nil
}

func languages(bundle *goi18n.Bundle) []string {
	tags := bundle.LanguageTags()
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		base, _ := tag.Base()
		out = append(out, base.String())
	}

	slices.Sort(out)

	return slices.Compact(out)
}

// normalize reduces locale strings such as "zh_CN.UTF-8" to their base language.
func normalize(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return DefaultLanguage
	}

	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}

	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return strings.ToLower(lang)
	}

	base, _ := tag.Base()

	return base.String()
}

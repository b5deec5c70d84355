package i18n

import (
	"embed"
	"errors"

	"luckydraw/models"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	log "github.com/sirupsen/logrus"
	"golang.org/x/text/language"
)

//go:embed locales/active.*.toml
var localeFS embed.FS

var localeFiles = []string{"locales/active.vi.toml", "locales/active.en.toml"}

// Translator renders localized messages for classified errors
type Translator struct {
	bundle          *i18n.Bundle
	defaultLanguage language.Tag
}

// NewTranslator builds a Translator over the embedded locale files.
// An unparsable default locale falls back to Vietnamese.
func NewTranslator(defaultLocale string) *Translator {
	tag, err := language.Parse(defaultLocale)
	if err != nil {
		tag = language.Vietnamese
	}
	bundle := i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			log.WithFields(log.Fields{
				"file":  file,
				"error": err,
			}).Error("Failed to load locale file")
		}
	}

	return &Translator{
		bundle:          bundle,
		defaultLanguage: tag,
	}
}

// DefaultLanguage returns the fallback language tag
func (t *Translator) DefaultLanguage() language.Tag {
	return t.defaultLanguage
}

// T renders the message identified by key. accept may be a locale or an
// Accept-Language header value. Unknown keys render as the key itself.
func (t *Translator) T(accept, key string, data map[string]interface{}) string {
	if key == "" {
		return ""
	}

	languages := []string{}
	if accept != "" {
		languages = append(languages, accept)
	}
	languages = append(languages, t.defaultLanguage.String())

	localizer := i18n.NewLocalizer(t.bundle, languages...)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		log.WithFields(log.Fields{
			"key":       key,
			"languages": languages,
			"error":     err,
		}).Warn("Localize failed")
		return key
	}
	return msg
}

// Error renders a user-facing message for err. Classified errors use their
// message id, anything else renders as StorageUnavailable.
func (t *Translator) Error(accept string, err error) string {
	if err == nil {
		return ""
	}
	var de *models.DrawError
	if errors.As(err, &de) {
		return t.T(accept, de.LocalizationID(), de.Data)
	}
	return t.T(accept, string(models.ErrorKindStorageUnavailable), nil)
}

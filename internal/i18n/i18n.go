package i18n

import (
	"context"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	Arabic  = "ar"
	English = "en"
)

var (
	supported = []language.Tag{language.Arabic, language.English}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

type contextKey struct{}

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, translation := range arabic {
		_ = b.SetString(language.Arabic, key, translation)
	}
	return b
}

// Negotiate picks ar or en. An explicit query value wins over the
// Accept-Language header; fallback is used when neither matches.
func Negotiate(query, acceptLanguage, fallback string) string {
	if lang, ok := parse(query); ok {
		return lang
	}
	if strings.TrimSpace(acceptLanguage) != "" {
		tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
		if err == nil && len(tags) > 0 {
			_, index, confidence := matcher.Match(tags...)
			if confidence != language.No {
				return base(supported[index])
			}
		}
	}
	if lang, ok := parse(fallback); ok {
		return lang
	}
	return Arabic
}

func parse(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	_, index, confidence := matcher.Match(tag)
	if confidence == language.No {
		return "", false
	}
	return base(supported[index]), true
}

func base(tag language.Tag) string {
	b, _ := tag.Base()
	return b.String()
}

// Supported reports whether lang is one of the languages the API answers in.
func Supported(lang string) bool {
	return lang == Arabic || lang == English
}

func WithLanguage(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, contextKey{}, lang)
}

func LanguageFromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(contextKey{}).(string); ok && lang != "" {
		return lang
	}
	return Arabic
}

// Translate returns the message in lang. Unknown messages are returned unchanged.
func Translate(lang, msg string) string {
	if lang == English || msg == "" {
		return msg
	}
	printer := message.NewPrinter(language.Arabic, message.Catalog(messages))
	return printer.Sprintf(msg)
}

func TranslateFields(lang string, fields map[string]string) map[string]string {
	if len(fields) == 0 {
		return fields
	}
	out := make(map[string]string, len(fields))
	for key, value := range fields {
		out[key] = Translate(lang, value)
	}
	return out
}

// Package i18n translates the labels used when describing preferences to the suggestion service.
package i18n

import (
	"strings"
)

// Language represents a supported language.
type Language string

const (
	// English is the English language.
	English Language = "en"
	// Finnish is the Finnish language.
	Finnish Language = "fi"
)

// DefaultLanguage is the fallback language.
const DefaultLanguage = English

// translations maps language codes to translation keys and their values.
var translations = map[Language]map[string]string{
	English: {
		"goal.general_fitness":      "general fitness",
		"goal.strength":             "building strength",
		"goal.cardio":               "cardiovascular endurance",
		"goal.weight_loss":          "weight loss",
		"goal.core":                 "core stability",
		"goal.flexibility":          "flexibility and mobility",
		"difficulty.beginner":       "beginner",
		"difficulty.intermediate":   "intermediate",
		"difficulty.advanced":       "advanced",
		"equipment.bodyweight":      "bodyweight only",
		"equipment.dumbbell":        "dumbbells",
		"equipment.kettlebell":      "kettlebell",
		"equipment.resistance_band": "resistance band",
		"equipment.mat":             "exercise mat",
		"language.name":             "English",
	},
	Finnish: {
		"goal.general_fitness":      "yleiskunto",
		"goal.strength":             "voiman kasvattaminen",
		"goal.cardio":               "kestävyys",
		"goal.weight_loss":          "painonpudotus",
		"goal.core":                 "keskivartalon hallinta",
		"goal.flexibility":          "liikkuvuus",
		"difficulty.beginner":       "aloittelija",
		"difficulty.intermediate":   "keskitaso",
		"difficulty.advanced":       "edistynyt",
		"equipment.bodyweight":      "oma kehonpaino",
		"equipment.dumbbell":        "käsipainot",
		"equipment.kettlebell":      "kahvakuula",
		"equipment.resistance_band": "vastuskuminauha",
		"equipment.mat":             "jumppamatto",
		"language.name":             "Suomi",
	},
}

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{English, Finnish}
}

// IsSupported checks if a language is supported.
func IsSupported(lang Language) bool {
	_, ok := translations[lang]
	return ok
}

// ParseLanguage maps a language tag such as "fi-FI" to a supported language, defaulting to English. Only the first
// entry of an Accept-Language header value is considered.
func ParseLanguage(tag string) Language {
	tag, _, _ = strings.Cut(tag, ",")
	tag, _, _ = strings.Cut(tag, ";")
	base, _, _ := strings.Cut(strings.ToLower(strings.TrimSpace(tag)), "-")
	if lang := Language(base); IsSupported(lang) {
		return lang
	}
	return DefaultLanguage
}

// Translate returns the translation for the given key in the specified language.
// If the key is not found, it falls back to the default language.
// If still not found, it returns the key itself.
func Translate(lang Language, key string) string {
	if translation, ok := lookup(lang, key); ok {
		return translation
	}
	return key
}

// Label translates a facet value such as ("equipment", "dumbbell"). Unknown values are humanised instead.
func Label(lang Language, facet, value string) string {
	if translation, ok := lookup(lang, facet+"."+value); ok {
		return translation
	}
	return strings.ReplaceAll(value, "_", " ")
}

func lookup(lang Language, key string) (string, bool) {
	if translation, ok := translations[lang][key]; ok {
		return translation, true
	}
	if lang != DefaultLanguage {
		if translation, ok := translations[DefaultLanguage][key]; ok {
			return translation, true
		}
	}
	return "", false
}

package entity

import "strings"

// Language represents supported language codes using ISO-style abbreviations.
type Language string

const (
	LanguageUnspecified Language = ""
	LanguageEnglish     Language = "en"
	LanguageArabic      Language = "ar"
	LanguageChinese     Language = "zh"
	LanguageSpanish     Language = "es"
	LanguageFrench      Language = "fr"
	LanguageGerman      Language = "de"
	LanguageHindi       Language = "hi"
	LanguageJapanese    Language = "ja"
	LanguageKorean      Language = "ko"
	LanguageRussian     Language = "ru"
)

var supportedLanguages = map[Language]struct{}{
	LanguageEnglish:  {},
	LanguageArabic:   {},
	LanguageChinese:  {},
	LanguageSpanish:  {},
	LanguageFrench:   {},
	LanguageGerman:   {},
	LanguageHindi:    {},
	LanguageJapanese: {},
	LanguageKorean:   {},
	LanguageRussian:  {},
}

// Code returns the lowercase language code (without defaulting).
func (l Language) Code() string {
	return strings.TrimSpace(string(l))
}

// ParseLanguage converts an arbitrary string into a supported Language value.
func ParseLanguage(code string) Language {
	lang := Language(strings.ToLower(strings.TrimSpace(code)))
	if _, ok := supportedLanguages[lang]; ok {
		return lang
	}
	return LanguageUnspecified
}

// NormalizeAnswer folds learner input for comparison against accepted answers.
func NormalizeAnswer(text string) string {
	return strings.ToLower(strings.Join(strings.Fields(text), " "))
}

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	_, ok := supportedLanguages[l]
	return ok
}

package entity

import "strings"

// Language represents supported language codes using ISO-style abbreviations.
type Language string

const (
	LanguageUnspecified Language = ""
	LanguageEnglish     Language = "en"
	LanguageSpanish     Language = "es"
	LanguageFrench      Language = "fr"
	LanguageGerman      Language = "de"
	LanguageItalian     Language = "it"
	LanguagePortuguese  Language = "pt"
)

// Code returns the lowercase language code (without defaulting).
func (l Language) Code() string {
	return strings.TrimSpace(string(l))
}

// Name returns the English display name used in completion prompts.
func (l Language) Name() string {
	switch l {
	case LanguageSpanish:
		return "Spanish"
	case LanguageFrench:
		return "French"
	case LanguageGerman:
		return "German"
	case LanguageItalian:
		return "Italian"
	case LanguagePortuguese:
		return "Portuguese"
	default:
		return "English"
	}
}

// NormalizeLanguage ensures the language falls back to a supported value
// (defaults to French, the first course shipped).
func NormalizeLanguage(lang Language) Language {
	switch lang {
	case LanguageEnglish, LanguageSpanish, LanguageFrench, LanguageGerman, LanguageItalian, LanguagePortuguese:
		return lang
	default:
		return LanguageFrench
	}
}

// ParseLanguage converts an arbitrary string into a supported Language value.
func ParseLanguage(code string) Language {
	switch strings.ToLower(strings.TrimSpace(code)) {
	case "en":
		return LanguageEnglish
	case "es":
		return LanguageSpanish
	case "fr":
		return LanguageFrench
	case "de":
		return LanguageGerman
	case "it":
		return LanguageItalian
	case "pt":
		return LanguagePortuguese
	default:
		return LanguageUnspecified
	}
}

// Level is a CEFR proficiency level.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// ParseLevel converts an arbitrary string into a CEFR level, defaulting
// to B1 for anything unrecognized.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A1":
		return LevelA1
	case "A2":
		return LevelA2
	case "B1":
		return LevelB1
	case "B2":
		return LevelB2
	case "C1":
		return LevelC1
	case "C2":
		return LevelC2
	default:
		return LevelB1
	}
}

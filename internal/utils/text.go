package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var titleCaser = cases.Title(language.BrazilianPortuguese)

// RemoveAccents strips diacritics ("Emergência" -> "Emergencia")
func RemoveAccents(value string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, value)
	if err != nil {
		return value
	}
	return result
}

// CapitalizeFirst upper-cases the first letter and lower-cases the rest ("mEI" -> "Mei")
func CapitalizeFirst(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	lower := []rune(strings.ToLower(value))
	lower[0] = unicode.ToUpper(lower[0])
	return string(lower)
}

// TitleCase capitalizes every word ("RUA DAS flores" -> "Rua Das Flores")
func TitleCase(value string) string {
	return titleCaser.String(strings.ToLower(strings.Join(strings.Fields(value), " ")))
}

// NormalizeFreeText removes accents, collapses whitespace and capitalizes the first letter
func NormalizeFreeText(value string) string {
	return CapitalizeFirst(strings.Join(strings.Fields(RemoveAccents(value)), " "))
}

// NormalizeTitle removes accents and title-cases the value
func NormalizeTitle(value string) string {
	return TitleCase(RemoveAccents(value))
}

// UpperLettersOnly keeps letters, removes accents and upper-cases them ("Rio-Sul 2" -> "RIOSUL")
func UpperLettersOnly(value string) string {
	var b strings.Builder
	for _, r := range RemoveAccents(value) {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// FoldForSearch lower-cases and strips accents so searches ignore both
func FoldForSearch(value string) string {
	return strings.ToLower(RemoveAccents(strings.TrimSpace(value)))
}

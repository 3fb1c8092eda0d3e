// Package inflection derives class, accessor and route names from table
// identifiers. Every function is total: the empty string comes back unchanged.
package inflection

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var irregularSingulars = map[string]string{
	"children": "child",
	"people":   "person",
	"men":      "man",
	"women":    "woman",
	"feet":     "foot",
	"teeth":    "tooth",
	"mice":     "mouse",
	"geese":    "goose",
}

// Singularize converts a plural English word to its singular form
func Singularize(word string) string {
	if word == "" {
		return word
	}

	lower := strings.ToLower(word)
	if singular, ok := irregularSingulars[lower]; ok {
		return singular
	}

	switch {
	case strings.HasSuffix(lower, "ies"):
		return word[:len(word)-3] + "y"
	case strings.HasSuffix(lower, "ses"),
		strings.HasSuffix(lower, "zes"),
		strings.HasSuffix(lower, "xes"),
		strings.HasSuffix(lower, "ches"),
		strings.HasSuffix(lower, "shes"):
		return word[:len(word)-2]
	case strings.HasSuffix(lower, "s") &&
		!strings.HasSuffix(lower, "ss") &&
		!strings.HasSuffix(lower, "us") &&
		!strings.HasSuffix(lower, "is"):
		return word[:len(word)-1]
	}

	return word
}

// Pluralize converts a singular English word to its plural form
func Pluralize(word string) string {
	if word == "" {
		return word
	}
	return inflect.Pluralize(word)
}

// PascalCase treats each run of non-alphanumeric characters as a word
// boundary, upper-cases the first letter of every word and lower-cases the rest
func PascalCase(word string) string {
	if word == "" {
		return word
	}

	var b strings.Builder
	b.Grow(len(word))
	capitalizeNext := true
	for _, r := range word {
		if !isAlphanumeric(r) {
			capitalizeNext = true
			continue
		}
		if capitalizeNext {
			b.WriteRune(unicode.ToUpper(r))
			capitalizeNext = false
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// CamelCase is PascalCase with a lower-case first character
func CamelCase(word string) string {
	pascal := PascalCase(word)
	if pascal == "" {
		return pascal
	}
	runes := []rune(pascal)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

// SnakeCase lower-cases the word and separates words with underscores
func SnakeCase(word string) string {
	if word == "" {
		return word
	}

	var b strings.Builder
	b.Grow(len(word) + 4)
	boundary := false
	var prev rune
	for _, r := range word {
		if !isAlphanumeric(r) {
			boundary = true
			prev = r
			continue
		}
		switch {
		case boundary:
			if b.Len() > 0 {
				b.WriteByte('_')
			}
			boundary = false
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
		prev = r
	}
	return b.String()
}

// Humanize turns an identifier into space separated title-cased words
func Humanize(word string) string {
	snake := SnakeCase(word)
	if snake == "" {
		return snake
	}
	// Casers carry state and cannot be shared between goroutines
	return cases.Title(language.English).String(strings.ReplaceAll(snake, "_", " "))
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

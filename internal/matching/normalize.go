// Package matching reconciles instructor names and course codes across the live
// class listing, the historical grade table and the external ratings index.
package matching

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeName collapses internal whitespace and lower-cases the name.
// Blank input yields an empty string.
func NormalizeName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// Initials returns the upper-cased first letter of every token except the last.
func Initials(normalized string) []string {
	tokens := strings.Fields(normalized)
	if len(tokens) < 2 {
		return nil
	}
	initials := make([]string, 0, len(tokens)-1)
	for _, token := range tokens[:len(tokens)-1] {
		r, _ := utf8.DecodeRuneInString(token)
		initials = append(initials, string(unicode.ToUpper(r)))
	}
	return initials
}

// LastToken returns the final whitespace separated token, or "".
func LastToken(name string) string {
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}
	return tokens[len(tokens)-1]
}

var (
	codeSeparators = regexp.MustCompile(`[,\-_]+`)
	codeGlued      = regexp.MustCompile(`^([A-Z]+)(\d.*)$`)
	leadingDigits  = regexp.MustCompile(`^\d+`)
)

// NormalizeCourseCode renders a course code as "SUBJECT NUM".
// "cse101", "CSE-101" and "CSE, 101" all become "CSE 101".
func NormalizeCourseCode(raw string) string {
	cleaned := strings.ToUpper(codeSeparators.ReplaceAllString(raw, " "))
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return ""
	}
	if len(fields) == 1 {
		if m := codeGlued.FindStringSubmatch(fields[0]); m != nil {
			return m[1] + " " + m[2]
		}
		return fields[0]
	}
	return strings.Join(fields, " ")
}

// SplitCourseCode returns the subject and catalog number of a course code.
func SplitCourseCode(code string) (subject, catalog string) {
	normalized := NormalizeCourseCode(code)
	idx := strings.LastIndex(normalized, " ")
	if idx < 0 {
		return normalized, ""
	}
	return normalized[:idx], normalized[idx+1:]
}

// CatalogNumber returns the leading numeric part of a catalog number ("13S" -> "13").
func CatalogNumber(catalog string) string {
	return leadingDigits.FindString(catalog)
}

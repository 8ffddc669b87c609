// utils/text.go
package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalPlace trims and title-cases a county or city name ("  cluj-napoca " -> "Cluj-Napoca").
func CanonicalPlace(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.Romanian).String(s)
}

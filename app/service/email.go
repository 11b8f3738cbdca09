package service

import (
	"regexp"
	"strings"
)

var zipCodeDigits = regexp.MustCompile(`(\d{2}).*(\d{3}).*(\d{3})`)

// NormalizeEmail trims and lowercases an email address for lookups and uniqueness checks.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FormatZipCode renders the first eight digits of a zip code as dd.ddd-ddd.
// Values without eight digits are returned unchanged.
func FormatZipCode(zipCode string) string {
	return zipCodeDigits.ReplaceAllString(zipCode, "$1.$2-$3")
}

package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugDisallowed = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpaces     = regexp.MustCompile(`\s+`)
	slugDashes     = regexp.MustCompile(`-+`)
	nonDigits      = regexp.MustCompile(`\D`)
)

// Slugify folds text into a lowercase ASCII key. Vietnamese diacritics are
// stripped and đ becomes d, so "Nguyễn Văn Đức" and "nguyen van duc" collide.
func Slugify(text string) string {
	s := strings.TrimSpace(strings.ToLower(text))

	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	if folded, _, err := transform.String(stripMarks, s); err == nil {
		s = folded
	}
	s = strings.ReplaceAll(s, "đ", "d")

	s = slugDisallowed.ReplaceAllString(s, "")
	s = slugSpaces.ReplaceAllString(s, "-")
	s = slugDashes.ReplaceAllString(s, "-")

	return strings.Trim(s, "-")
}

// NormalizedKey identifies an attendee by name and department within an event
func NormalizedKey(fullName, department string) string {
	return Slugify(fullName) + "|" + Slugify(department)
}

// phoneDigits strips everything but digits
func phoneDigits(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// NormalizePhone converts a Vietnamese phone number to the 84xxxxxxxxx form.
// Numbers in neither the 84 nor the leading 0 shape are returned as bare digits.
func NormalizePhone(phone string) string {
	digits := phoneDigits(phone)
	switch {
	case strings.HasPrefix(digits, "84") && len(digits) == 11:
		return digits
	case strings.HasPrefix(digits, "0") && len(digits) == 10:
		return "84" + digits[1:]
	}
	return digits
}

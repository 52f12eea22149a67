// Package contact validates and normalizes applicant contact details, and
// synthesizes the placeholder values used while a real email or phone is not
// yet known. Placeholders carry a fixed marker so the analysis callback can
// detect and replace them later.
package contact

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// PlaceholderDomain tags synthesized emails. ".invalid" is reserved by
// RFC 2606, so a placeholder can never collide with a deliverable address.
const PlaceholderDomain = "placeholder.invalid"

// PlaceholderPhonePrefix tags synthesized phone numbers. No dialing plan
// assigns numbers starting with three zeroes.
const PlaceholderPhonePrefix = "000"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidEmail reports whether the value looks like a deliverable address.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(NormalizeEmail(email))
}

// NormalizePhone strips spaces, dashes, dots and parentheses, keeping an
// optional leading "+".
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	for i, r := range phone {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator, drop
		default:
			// anything else invalidates later via ValidPhone
			b.WriteRune(r)
		}
	}
	return b.String()
}

var phonePattern = regexp.MustCompile(`^\+?[1-9][0-9]{6,14}$`)

// ValidPhone reports whether a normalized phone number has a plausible
// international format: optional "+", non-zero leading digit, 7-15 digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// PlaceholderEmail synthesizes a unique marker address from a high-resolution
// timestamp.
func PlaceholderEmail(now time.Time) string {
	return fmt.Sprintf("applicant+%d@%s", now.UnixNano(), PlaceholderDomain)
}

// PlaceholderPhone synthesizes a unique marker phone number.
func PlaceholderPhone(now time.Time) string {
	return fmt.Sprintf("%s%d", PlaceholderPhonePrefix, now.UnixNano())
}

// IsPlaceholderEmail reports whether the address carries the placeholder marker.
func IsPlaceholderEmail(email string) bool {
	return strings.HasSuffix(NormalizeEmail(email), "@"+PlaceholderDomain)
}

// IsPlaceholderPhone reports whether the number carries the placeholder marker.
func IsPlaceholderPhone(phone string) bool {
	return strings.HasPrefix(phone, PlaceholderPhonePrefix)
}

// Usable reports whether a phone number is real enough to message: present,
// valid, and not a synthesized placeholder.
func Usable(phone string) bool {
	return phone != "" && !IsPlaceholderPhone(phone) && ValidPhone(phone)
}

// DeriveNameFromEmail splits an address's local part into a first/last name
// pair for profiles created before any CV data is known.
func DeriveNameFromEmail(email string) (string, string) {
	localPart := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		localPart = email[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})

	if len(parts) == 0 {
		return "Applicant", "Applicant"
	}

	first := capitalize(parts[0])
	last := "Applicant"
	if len(parts) > 1 {
		last = capitalize(parts[len(parts)-1])
	}

	return first, last
}

func capitalize(s string) string {
	if s == "" {
		return s
	}

	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

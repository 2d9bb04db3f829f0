package utils

import (
	"regexp"
	"strings"
)

const EmailDomainSuffix = "@gmail.com"

var (
	phoneRegex = regexp.MustCompile(`^\d{10}$`)
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`\d`)
)

// IsValidPhone reports whether phone is exactly 10 digits.
func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(phone)
}

// IsValidEmail reports whether email (trimmed, case-insensitive) ends with
// the allowed domain suffix.
func IsValidEmail(email string) bool {
	return strings.HasSuffix(NormalizeEmail(email), EmailDomainSuffix)
}

// IsValidPassword reports whether pw is exactly 10 characters with at least
// one uppercase letter, one lowercase letter and one digit.
func IsValidPassword(pw string) bool {
	if len(pw) != 10 {
		return false
	}
	return upperRegex.MatchString(pw) && lowerRegex.MatchString(pw) && digitRegex.MatchString(pw)
}

// NormalizeEmail lowercases and trims an email for store lookups and OTP keys.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

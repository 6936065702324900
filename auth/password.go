package auth

import (
	"strings"
	"unicode/utf8"

	"trendmoni/models"
)

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 8

// PasswordSpecials is the set of characters that satisfy the special
// character requirement.
const PasswordSpecials = "@$!%*?&"

// PasswordProblems lists every composition rule pass fails, in a fixed
// order. An empty result means the password is acceptable.
func PasswordProblems(pass string) []string {
	var problems []string
	if utf8.RuneCountInString(pass) < MinPasswordLength {
		problems = append(problems, "at least 8 characters")
	}
	if !strings.ContainsFunc(pass, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		problems = append(problems, "an uppercase letter")
	}
	if !strings.ContainsFunc(pass, func(r rune) bool { return r >= 'a' && r <= 'z' }) {
		problems = append(problems, "a lowercase letter")
	}
	if !strings.ContainsFunc(pass, func(r rune) bool { return r >= '0' && r <= '9' }) {
		problems = append(problems, "a number")
	}
	if !strings.ContainsAny(pass, PasswordSpecials) {
		problems = append(problems, "a special character ("+PasswordSpecials+")")
	}
	return problems
}

// ValidatePassword returns an *models.InputValidationError listing all
// unmet requirements, or nil.
func ValidatePassword(pass string) error {
	problems := PasswordProblems(pass)
	if len(problems) == 0 {
		return nil
	}
	return &models.InputValidationError{Field: "password", Problems: problems}
}

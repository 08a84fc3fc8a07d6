package service

import (
	"regexp"
	"strings"
)

var (
	nameRegex   = regexp.MustCompile(`^[A-Za-z\s]+$`)
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	mobileRegex = regexp.MustCompile(`^\+?\d{10,13}$`)
)

const passwordSpecials = "!@#$%^&*"

func isValidName(name string) bool {
	return nameRegex.MatchString(name)
}

func isValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func isValidMobile(mobile string) bool {
	return mobileRegex.MatchString(mobile)
}

// isValidPassword requires at least 6 characters including one digit
// and one special character.
func isValidPassword(password string) bool {
	if len(password) < 6 {
		return false
	}
	if !strings.ContainsAny(password, "0123456789") {
		return false
	}
	return strings.ContainsAny(password, passwordSpecials)
}

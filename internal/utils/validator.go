package utils

import (
	"net/mail"
	"regexp"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// ValidateUsername checks if the username meets the requirements.
func ValidateUsername(username string) (bool, string) {
	if username == "" {
		return false, "username is required"
	}
	if len(username) > 20 {
		return false, "username must be at most 20 characters"
	}
	if !usernamePattern.MatchString(username) {
		return false, "username may only contain letters and digits"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "password must be at least 8 characters"
	}
	if len(password) > 128 {
		return false, "password must be at most 128 characters"
	}
	return true, ""
}

// ValidateEmail checks the address shape.
func ValidateEmail(email string) (bool, string) {
	if email == "" || len(email) > 254 {
		return false, "a valid email address is required"
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false, "a valid email address is required"
	}
	return true, ""
}

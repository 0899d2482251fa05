// Package submit implements the user-facing submission entry point.
package submit

import (
	"regexp"
	"strings"

	"github.com/harvestlane/contactsync/internal/models"
)

// emailPattern accepts local@domain.tld shaped addresses. The server applies
// the same rule, and stays authoritative for anything the client cannot
// verify offline.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// nonDigits strips everything that is not 0-9.
var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone reduces a phone number to its digits.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// Normalize trims the free-text fields of a form input.
func Normalize(input models.FormInput) models.FormInput {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Phone = strings.TrimSpace(input.Phone)
	input.Message = strings.TrimSpace(input.Message)
	return input
}

// Validate checks a form input against the shared field constraints and
// returns per-field messages. An empty map means the input is valid.
func Validate(input models.FormInput) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}

	email := strings.TrimSpace(input.Email)
	if email == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(email) {
		fields["email"] = "invalid email address"
	}

	if digits := NormalizePhone(input.Phone); len(digits) != 10 {
		fields["phone"] = "phone must have exactly 10 digits"
	}

	if strings.TrimSpace(input.Message) == "" {
		fields["message"] = "message is required"
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Package validate normalizes and checks the free-text fields of persons and
// meetings. Every function is pure; failures are *domain.Error values of kind
// domain.KindValidation.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/meetsched/internal/domain"
)

// Field length limits.
const (
	MaxNameLength        = 100
	MinNameLength        = 2
	MaxEmailLength       = 100
	MaxPhoneLength       = 10
	MaxTitleLength       = 200
	MaxDescriptionLength = 1000
	MaxLocationLength    = 200
)

var validate = validator.New()

// CleanText trims value and enforces the emptiness and length rules for
// field. A nil value is treated as the empty string. Length is counted in
// characters, not bytes.
func CleanText(value *string, field string, allowEmpty bool, maxLen int) (string, error) {
	s := ""
	if value != nil {
		s = strings.TrimSpace(*value)
	}

	if !allowEmpty && s == "" {
		return "", domain.NewError(domain.KindValidation, "%s is required", field)
	}

	if maxLen > 0 {
		if err := validate.Var(s, fmt.Sprintf("max=%d", maxLen)); err != nil {
			return "", domain.NewError(domain.KindValidation, "%s must be at most %d characters long", field, maxLen)
		}
	}

	return s, nil
}

// Name validates a person name.
func Name(name string) (string, error) {
	s, err := CleanText(&name, "Name", false, MaxNameLength)
	if err != nil {
		return "", err
	}
	if err := validate.Var(s, fmt.Sprintf("min=%d", MinNameLength)); err != nil {
		return "", domain.NewError(domain.KindValidation, "Name must be at least %d characters", MinNameLength)
	}
	return s, nil
}

// Email validates an address and returns it lowercased. The check is
// deliberately structural: one '@', a non-empty local part, and a domain
// containing an inner '.'.
func Email(email string) (string, error) {
	s, err := CleanText(&email, "Email", false, MaxEmailLength)
	if err != nil {
		return "", err
	}
	s = strings.ToLower(s)

	local, host, ok := strings.Cut(s, "@")
	if !ok || strings.Contains(host, "@") || local == "" || host == "" {
		return "", invalidEmail()
	}
	if !strings.Contains(host, ".") || strings.HasPrefix(host, ".") || strings.HasSuffix(host, ".") {
		return "", invalidEmail()
	}
	return s, nil
}

func invalidEmail() error {
	return domain.NewError(domain.KindValidation, "Invalid email address")
}

// Phone validates an optional phone number. A nil or blank value yields nil.
func Phone(phone *string) (*string, error) {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil, nil
	}
	s, err := CleanText(phone, "Phone", true, MaxPhoneLength)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Title validates a meeting title.
func Title(title string) (string, error) {
	return CleanText(&title, "Title", false, MaxTitleLength)
}

// Description validates an optional meeting description.
func Description(description string) (string, error) {
	return CleanText(&description, "Description", true, MaxDescriptionLength)
}

// Location validates an optional meeting location.
func Location(location string) (string, error) {
	return CleanText(&location, "Location", true, MaxLocationLength)
}

// Person validates and normalizes all registration fields.
func Person(name, email string, phone *string) (domain.Person, error) {
	n, err := Name(name)
	if err != nil {
		return domain.Person{}, err
	}
	e, err := Email(email)
	if err != nil {
		return domain.Person{}, err
	}
	p, err := Phone(phone)
	if err != nil {
		return domain.Person{}, err
	}
	return domain.Person{Name: n, Email: e, Phone: p}, nil
}

package domain

import (
	"regexp"
	"strings"
	"time"
)

var (
	emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
)

// Guest represents a registered guest.
type Guest struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Validate validates all guest fields.
func (g *Guest) Validate() error {
	if err := g.ValidateName(); err != nil {
		return err
	}
	if err := g.ValidateEmail(); err != nil {
		return err
	}
	return g.ValidatePhone()
}

// ValidateName validates the guest name.
func (g *Guest) ValidateName() error {
	if len(strings.TrimSpace(g.Name)) < 2 {
		return ErrInvalidInput
	}
	return nil
}

// ValidateEmail validates the email format.
func (g *Guest) ValidateEmail() error {
	if !emailPattern.MatchString(g.Email) {
		return ErrInvalidInput
	}
	return nil
}

// ValidatePhone validates the phone format (9-15 digits, optional +).
func (g *Guest) ValidatePhone() error {
	if !phonePattern.MatchString(g.Phone) {
		return ErrInvalidInput
	}
	return nil
}

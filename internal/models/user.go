package models

import (
	"errors"
	"regexp"
	"unicode"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Password string    `json:"-"`
	Role     Role      `json:"role"`
	Blocked  bool      `json:"blocked"`
}

func NewUser(username, hashedPassword string, role Role) *User {
	return &User{ID: uuid.New(), Username: username, Password: hashedPassword, Role: role}
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

func ValidateUsername(username string) error {
	if username == "" {
		return errors.New("username is required")
	}
	if !usernamePattern.MatchString(username) {
		return errors.New("username may contain only letters, digits and underscores")
	}
	return nil
}

// ValidatePassword enforces the registration policy: at least 12 characters
// with a lower-case letter, an upper-case letter, a digit and a symbol.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters long")
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}

	if !lower || !upper || !digit || !symbol {
		return errors.New("password must contain lower, upper, digit and symbol characters")
	}
	return nil
}

package domain

import (
	"errors"
	"time"
	"unicode"
)

// Role is the caller's authorization level. Broader roles see a strict
// superset of what narrower roles see.
type Role string

const (
	RoleAnonymous  Role = "anonymous"
	RoleInternal   Role = "internal"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid token")
var ErrWeakPassword = errors.New("password must be at least 8 characters and contain a digit")
var ErrInvalidUser = errors.New("invalid user data")

// PersistableRole reports whether r may be stored on a user account.
// RoleAnonymous is the implicit role of an unauthenticated caller and is
// never persisted.
func PersistableRole(r Role) bool {
	switch r {
	case RoleInternal, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// CheckPassword enforces the account password policy: at least 8 characters,
// at least one digit.
func CheckPassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	for _, r := range password {
		if unicode.IsDigit(r) {
			return nil
		}
	}
	return ErrWeakPassword
}

// User models a stored account. PasswordHash never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"userType"`
	IsActive     bool      `json:"isActive"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	LastLoginAt  time.Time `json:"lastLoginAt,omitempty"`
}

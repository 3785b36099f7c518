package models

import (
	"golang.org/x/crypto/bcrypt"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleFinance UserRole = "finance"
	RoleDriver  UserRole = "driver"
)

// User is a back-office account. Drivers log in with their own Driver record.
type User struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Role         UserRole `json:"role"`
	Password     string   `json:"-"` // Temporary field for password handling
	PasswordHash string   `json:"password_hash"`
	Permissions  []string `json:"permissions,omitempty"`
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hash, err := HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Password = ""
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

// HashPassword bcrypt-hashes a plain password
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// IsStaff reports whether the role may use the back-office
func (r UserRole) IsStaff() bool {
	return r == RoleAdmin || r == RoleManager || r == RoleFinance
}

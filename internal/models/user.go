// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

// User is an operator of the dashboard. Users live in the in-process roster and
// are never written to the catalog store.
type User struct {
	ID           string `json:"id" yaml:"id"`
	Username     string `json:"username" yaml:"username"`
	Role         Role   `json:"role" yaml:"role"`
	PasswordHash string `json:"-" yaml:"password_hash"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

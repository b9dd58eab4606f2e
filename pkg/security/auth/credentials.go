package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Credentials holds the configured admin login. When PasswordHash is
// set it wins over the plain Password.
type Credentials struct {
	Username     string
	Password     string
	PasswordHash string
}

// Verify reports whether the supplied username/password match the
// configured credentials. Comparisons are constant-time.
func (c Credentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(username)) == 1

	if c.PasswordHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password))
		return userOK && err == nil
	}

	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(password)) == 1
	return userOK && passOK
}

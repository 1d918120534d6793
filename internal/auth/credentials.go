package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the read-only username to password mapping loaded from
// configuration. Passwords are either plaintext or bcrypt hashes.
type Credentials struct {
	users map[string]string
}

// NewCredentials copies users so later changes to the source map are not seen.
func NewCredentials(users map[string]string) *Credentials {
	copied := make(map[string]string, len(users))
	for name, password := range users {
		copied[name] = password
	}
	return &Credentials{users: copied}
}

// Has reports whether username is a configured user.
func (c *Credentials) Has(username string) bool {
	_, ok := c.users[username]
	return ok
}

// Authenticate reports whether password matches the stored password for
// username. Plaintext passwords are compared in constant time.
func (c *Credentials) Authenticate(username, password string) bool {
	stored, ok := c.users[username]
	if !ok {
		return false
	}

	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}

	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

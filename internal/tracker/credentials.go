package tracker

import (
	"crypto/subtle"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Credentials is the single accepted username and bcrypt password hash.
type Credentials struct {
	Username     string
	PasswordHash []byte
}

// NewCredentials hashes password with bcrypt.
func NewCredentials(username, password string, cost int) (Credentials, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return Credentials{}, fmt.Errorf("NewCredentials: hashing password: %w", err)
	}
	return Credentials{Username: username, PasswordHash: hash}, nil
}

var defaultCredentials = sync.OnceValue(func() Credentials {
	c, err := NewCredentials("admin", "admin", bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	return c
})

// DefaultCredentials returns the fixed admin/admin pair.
func DefaultCredentials() Credentials {
	return defaultCredentials()
}

// Match reports whether username and password equal the stored pair.
func (c Credentials) Match(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) == 1
	passOK := bcrypt.CompareHashAndPassword(c.PasswordHash, []byte(password)) == nil
	return userOK && passOK
}

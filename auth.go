package main

import (
	"golang.org/x/crypto/bcrypt"
)

// Credential verification. Hashing runs only where the password itself is
// being set (register, change-password); account updates never re-hash an
// already-hashed value.

const minPasswordLen = 6 // basic password policy

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// checkPassword compares without leaking timing; bcrypt's compare is
// constant-time over the digest.
func checkPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

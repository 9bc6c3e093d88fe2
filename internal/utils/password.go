package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashSecretCode hashes a plaintext account secret code using bcrypt.
func HashSecretCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckSecretCodeHash compares a plaintext secret code with a bcrypt hash.
func CheckSecretCodeHash(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}

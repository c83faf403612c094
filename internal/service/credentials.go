package service

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Credential gate: password digests and opaque id generation. Kept behind
// small functions so the game service never touches bcrypt directly.

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// NewGameID returns an opaque unique game identifier.
func NewGameID() string {
	return uuid.NewString()
}

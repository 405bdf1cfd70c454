package crypto

import (
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Hasher produces credential hashes for accounts created by imports.
type Hasher interface {
	Hash(secret string) (string, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(secret string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(out), nil
}

// PlaceholderCredential hashes a random secret nobody knows; the account must reset it to log in.
func PlaceholderCredential(h Hasher) (string, error) {
	return h.Hash(uuid.NewString())
}

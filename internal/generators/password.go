package generators

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the credential hashing collaborator.
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// onceHasher hashes each distinct password once and reuses the result.
type onceHasher struct {
	mu     sync.Mutex
	inner  PasswordHasher
	hashes map[string]string
}

func newOnceHasher(inner PasswordHasher) *onceHasher {
	if inner == nil {
		inner = BcryptHasher{}
	}
	return &onceHasher{inner: inner, hashes: make(map[string]string)}
}

func (h *onceHasher) Hash(plain string) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if v, ok := h.hashes[plain]; ok {
		return v, nil
	}
	v, err := h.inner.Hash(plain)
	if err != nil {
		return "", err
	}
	h.hashes[plain] = v
	return v, nil
}

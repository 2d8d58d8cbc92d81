package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost is the bcrypt work factor for stored passwords.
const DefaultHashCost = 12

// MaxPasswordBytes is the longest input bcrypt accepts.
const MaxPasswordBytes = 72

// Hasher hashes and verifies passwords at a fixed bcrypt cost.
type Hasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Cost() int {
	return h.cost
}

func (h *Hasher) Hash(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), h.cost)
}

// Compare reports whether password matches hash. bcrypt compares the derived
// keys in constant time.
func (h *Hasher) Compare(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// CompareDummy spends the same work as Compare against a hash that never
// matches. Used when the account does not exist so both failure paths cost
// the same.
func (h *Hasher) CompareDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("portfolio-dummy-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}

// Package bcrypt implements the passwd.Hasher interface with the
// bcrypt adaptive hash function of the golang.org/x/crypto module.
package bcrypt

import (
	"errors"
	"fmt"

	"github.com/futuremech/fmweb/pkg/core/passwd"
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes passwords with a fixed bcrypt cost.
type Hasher struct {
	cost int
}

// New returns a Hasher with the given cost. A zero cost selects the
// bcrypt.DefaultCost.
func New(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf(
			"bcrypt cost (%d) is not in [%d, %d]",
			cost, bcrypt.MinCost, bcrypt.MaxCost,
		)
	}
	return &Hasher{cost: cost}, nil
}

func (h *Hasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("generating bcrypt hash: %w", err)
	}
	return string(b), nil
}

func (h *Hasher) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return passwd.ErrMismatch
	}
	return err
}

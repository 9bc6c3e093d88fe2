// Package refgen generates human-readable references for accounts and
// transactions. References embed the creation date and a random suffix,
// e.g. "CPT-20260829-483920". Uniqueness is enforced by the database;
// callers regenerate on collision.
package refgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync/atomic"
	"time"
)

const suffixDigits = 6

// Generator produces a reference with the given prefix, such as "CPT",
// "TRX" or "DEP". Implementations must be safe for concurrent use.
type Generator interface {
	Generate(prefix string, now time.Time) (string, error)
}

// RandomGenerator draws the suffix from crypto/rand.
type RandomGenerator struct{}

// NewRandomGenerator returns the production reference generator.
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) Generate(prefix string, now time.Time) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < suffixDigits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to draw reference suffix: %w", err)
	}
	return fmt.Sprintf("%s-%s-%0*d", prefix, now.Format("20060102"), suffixDigits, n), nil
}

// SequenceGenerator produces deterministic ascending suffixes. It exists for
// tests that need predictable references and collision scenarios.
type SequenceGenerator struct {
	next atomic.Int64
}

// NewSequenceGenerator returns a generator whose first suffix is start.
func NewSequenceGenerator(start int64) *SequenceGenerator {
	g := &SequenceGenerator{}
	g.next.Store(start)
	return g
}

func (g *SequenceGenerator) Generate(prefix string, now time.Time) (string, error) {
	n := g.next.Add(1) - 1
	return fmt.Sprintf("%s-%s-%0*d", prefix, now.Format("20060102"), suffixDigits, n%1000000), nil
}

package usecase

import (
	"context"
	"math/rand/v2"
	"time"

	domainErrors "github.com/polkiloo/autoshop/internal/domain/errors"
)

const (
	orderNumberPrefix          = "ORD-"
	orderNumberDateLayout      = "20060102"
	orderNumberSuffixLength    = 5
	orderNumberAlphabet        = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	defaultOrderNumberAttempts = 10
)

// OrderNumberGenerator produces ORD-YYYYMMDD-XXXXX identifiers.
type OrderNumberGenerator struct {
	now      func() time.Time
	intn     func(n int) int
	attempts int
}

// NewOrderNumberGenerator creates a generator using wall clock and math/rand/v2.
func NewOrderNumberGenerator() *OrderNumberGenerator {
	return &OrderNumberGenerator{now: time.Now, intn: rand.IntN, attempts: defaultOrderNumberAttempts}
}

// Attempts is the upper bound on candidates tried per Generate call.
func (g *OrderNumberGenerator) Attempts() int {
	return g.attempts
}

// Candidate returns one order number without checking uniqueness.
func (g *OrderNumberGenerator) Candidate() string {
	suffix := make([]byte, orderNumberSuffixLength)
	for i := range suffix {
		suffix[i] = orderNumberAlphabet[g.intn(len(orderNumberAlphabet))]
	}
	return orderNumberPrefix + g.now().Format(orderNumberDateLayout) + "-" + string(suffix)
}

// Generate returns the first candidate exists reports as free.
func (g *OrderNumberGenerator) Generate(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < g.attempts; i++ {
		candidate := g.Candidate()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", domainErrors.ErrOrderNumberExhausted
}

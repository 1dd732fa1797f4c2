package app

import (
	"math/rand/v2"
	"strconv"
	"sync"
)

const (
	minCode = 100000
	maxCode = 999999
)

// CodeGenerator produces verification codes for pending transfers.
type CodeGenerator interface {
	Generate() string
}

// RandomCodeGenerator draws codes uniformly from [100000, 999999].
//
// It uses math/rand/v2, which is NOT cryptographically secure. The code is
// shown to the user in a notification, so it protects nothing; swap in a
// crypto/rand source before delivering codes out of band.
type RandomCodeGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomCodeGenerator returns a generator backed by the runtime's global source.
func NewRandomCodeGenerator() *RandomCodeGenerator {
	return &RandomCodeGenerator{}
}

// NewSeededCodeGenerator returns a deterministic generator for tests.
func NewSeededCodeGenerator(seed uint64) *RandomCodeGenerator {
	return &RandomCodeGenerator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Generate returns a six digit code. Every value has exactly six digits since
// the range starts at 100000.
func (g *RandomCodeGenerator) Generate() string {
	span := maxCode - minCode + 1
	var n int
	if g.rng == nil {
		n = rand.IntN(span)
	} else {
		g.mu.Lock()
		n = g.rng.IntN(span)
		g.mu.Unlock()
	}
	return strconv.Itoa(minCode + n)
}

package booking

import (
	"math/rand"
	"sync"
	"time"
)

// Confirmation codes are short, human-shareable references: the LB
// marketplace tag followed by six characters, eight in total.
const (
	codePrefix   = "LB"
	codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	codeRandLen  = 6

	// maxCodeAttempts bounds the collision-regeneration loop.
	maxCodeAttempts = 5
)

// CodeGenerator produces confirmation codes from an injectable random
// source, so tests can force collisions deterministically.
type CodeGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCodeGenerator seeds the generator from src, or from the clock when
// src is nil.
func NewCodeGenerator(src rand.Source) *CodeGenerator {
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &CodeGenerator{rng: rand.New(src)}
}

// Next returns a fresh candidate code. Uniqueness is the caller's problem;
// the generator only guarantees format.
func (g *CodeGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, 0, len(codePrefix)+codeRandLen)
	buf = append(buf, codePrefix...)
	for i := 0; i < codeRandLen; i++ {
		buf = append(buf, codeAlphabet[g.rng.Intn(len(codeAlphabet))])
	}
	return string(buf)
}

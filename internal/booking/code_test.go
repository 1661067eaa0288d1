package booking

import (
	"math/rand"
	"strings"
	"testing"
)

func TestCodeFormat(t *testing.T) {
	g := NewCodeGenerator(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		code := g.Next()
		if len(code) != len(codePrefix)+codeRandLen {
			t.Fatalf("code %q has length %d, want %d", code, len(code), len(codePrefix)+codeRandLen)
		}
		if !strings.HasPrefix(code, codePrefix) {
			t.Fatalf("code %q missing prefix %q", code, codePrefix)
		}
		for _, ch := range code[len(codePrefix):] {
			if !strings.ContainsRune(codeAlphabet, ch) {
				t.Fatalf("code %q contains %q outside the alphabet", code, ch)
			}
		}
	}
}

// TestCodesUniqueAcrossManyBookings mirrors the engine's collision loop:
// a candidate colliding with an issued code is regenerated, and the final
// set of issued codes must have no duplicates.
func TestCodesUniqueAcrossManyBookings(t *testing.T) {
	g := NewCodeGenerator(rand.NewSource(42))
	seen := make(map[string]bool, 10000)
	for i := 0; i < 10000; i++ {
		code := g.Next()
		attempts := 1
		for seen[code] {
			if attempts >= maxCodeAttempts {
				t.Fatalf("no unique code after %d attempts at booking %d", attempts, i)
			}
			code = g.Next()
			attempts++
		}
		seen[code] = true
	}
	if len(seen) != 10000 {
		t.Fatalf("issued %d distinct codes, want 10000", len(seen))
	}
}

package attendance

import (
	"fmt"
	"math/rand/v2"
)

// CodeGenerator produces fixed-width numeric verification codes.
type CodeGenerator interface {
	// Generate returns a code that differs from previous.
	Generate(previous string) string
}

// RandomCodes draws codes uniformly from [0, 10^length).
type RandomCodes struct {
	length int
	limit  int
	intN   func(n int) int
}

// NewRandomCodes returns a generator for codes of the given width (default 6).
func NewRandomCodes(length int) *RandomCodes {
	if length <= 0 {
		length = 6
	}
	limit := 1
	for i := 0; i < length; i++ {
		limit *= 10
	}
	return &RandomCodes{length: length, limit: limit, intN: rand.IntN}
}

func (g *RandomCodes) Generate(previous string) string {
	for {
		code := fmt.Sprintf("%0*d", g.length, g.intN(g.limit))
		if code != previous {
			return code
		}
	}
}

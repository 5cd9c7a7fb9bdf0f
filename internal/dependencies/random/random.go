package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"sync"
)

// Random provides random number generation that can be mocked for testing
type Random interface {
	// Intn returns a random int in [0, n)
	Intn(n int) int

	// String generates a random string of the given length from the given alphabet
	String(length int, alphabet string) string
}

// Source is a Random shared by every session. Piece order comes from a
// seedable generator so a seed reproduces a whole game's deal.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a Source seeded from the operating system
func New() *Source {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("random: unable to seed: " + err.Error())
	}
	return &Source{rng: rand.New(rand.NewChaCha8(seed))}
}

// NewSeeded creates a deterministic Source
func NewSeeded(seed uint64) *Source {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:], seed)
	return &Source{rng: rand.New(rand.NewChaCha8(s))}
}

// Intn returns a random int in [0, n), or 0 when n is not positive
func (r *Source) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}

func (r *Source) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]byte, length)
	for i := range result {
		result[i] = alphabet[r.rng.IntN(len(alphabet))]
	}
	return string(result)
}

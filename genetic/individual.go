package genetic

import (
	"fmt"
	"math/big"
	"math/rand/v2"
)

// Individual is one candidate solution: a fixed-length bit string plus
// a lazily computed, cached fitness score. The genome length is set at
// construction and never changes. The fitness function is shared
// read-only by the whole population.
type Individual struct {
	genome []byte // one element per bit, each 0 or 1
	fn     FitnessFunc
	score  float64
	scored bool
}

// NewIndividual allocates an all-zero individual of nBits bits.
func NewIndividual(nBits int, fn FitnessFunc) (*Individual, error) {
	if nBits <= 0 {
		return nil, fmt.Errorf("%w: bit length must be positive, got %d", ErrInvalidArgument, nBits)
	}
	return &Individual{genome: make([]byte, nBits), fn: fn}, nil
}

// NewIndividualFromBits builds an individual with a fixed genome.
// Every element of bits must be 0 or 1. The genome is copied.
func NewIndividualFromBits(bits []byte, fn FitnessFunc) (*Individual, error) {
	if len(bits) == 0 {
		return nil, fmt.Errorf("%w: empty genome", ErrInvalidArgument)
	}
	genome := make([]byte, len(bits))
	for i, b := range bits {
		if b > 1 {
			return nil, fmt.Errorf("%w: genome element %d is %d, want 0 or 1", ErrInvalidArgument, i, b)
		}
		genome[i] = b
	}
	return &Individual{genome: genome, fn: fn}, nil
}

// Len returns the genome length in bits.
func (ind *Individual) Len() int { return len(ind.genome) }

// Genome returns the underlying bit string. Callers must treat it as
// read-only; mutating it bypasses fitness cache invalidation.
func (ind *Individual) Genome() []byte { return ind.genome }

// Bit returns the bit at position i.
func (ind *Individual) Bit(i int) byte { return ind.genome[i] }

// Randomize sets every bit independently and uniformly at random and
// drops any cached fitness. Returns the individual for chaining.
func (ind *Individual) Randomize(rng *rand.Rand) *Individual {
	for i := range ind.genome {
		ind.genome[i] = byte(rng.IntN(2))
	}
	ind.invalidate()
	return ind
}

// Mutate flips each bit independently with probability rate, in place.
// A mutation that flips at least one bit drops the cached fitness.
func (ind *Individual) Mutate(rate float64, rng *rand.Rand) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0,1], got %v", ErrInvalidArgument, rate)
	}
	flipped := false
	for i := range ind.genome {
		if rng.Float64() < rate {
			ind.genome[i] ^= 1
			flipped = true
		}
	}
	if flipped {
		ind.invalidate()
	}
	return nil
}

// Fitness returns the cached score, computing and caching it on first
// use. The fitness function runs at most once per cached value.
func (ind *Individual) Fitness() (float64, error) {
	if ind.scored {
		return ind.score, nil
	}
	score, err := ind.fn(ind.genome)
	if err != nil {
		return 0, fmt.Errorf("fitness: %w", err)
	}
	ind.setFitness(score)
	return score, nil
}

// setFitness overwrites the cache. The evaluator calls this for the
// whole population each generation; that is the canonical point where
// fitness becomes current.
func (ind *Individual) setFitness(score float64) {
	ind.score = score
	ind.scored = true
}

func (ind *Individual) invalidate() {
	ind.scored = false
}

// CrossoverSinglePoint builds a child from this individual's first
// pivot bits followed by the mate's remaining bits. Neither parent is
// modified; the child starts with no cached fitness.
func (ind *Individual) CrossoverSinglePoint(mate *Individual, pivot int) (*Individual, error) {
	if mate.Len() != ind.Len() {
		return nil, fmt.Errorf("%w: mate genome is %d bits, want %d", ErrInvalidArgument, mate.Len(), ind.Len())
	}
	if pivot < 0 || pivot > len(ind.genome) {
		return nil, fmt.Errorf("%w: pivot must be in [0,%d], got %d", ErrInvalidArgument, len(ind.genome), pivot)
	}
	child := &Individual{genome: make([]byte, len(ind.genome)), fn: ind.fn}
	copy(child.genome, ind.genome[:pivot])
	copy(child.genome[pivot:], mate.genome[pivot:])
	return child, nil
}

// CrossoverUniform builds a child taking each bit from either parent
// with independent 50/50 probability. The mate must have the same
// genome length. Neither parent is modified; the child starts with no
// cached fitness.
func (ind *Individual) CrossoverUniform(mate *Individual, rng *rand.Rand) *Individual {
	child := &Individual{genome: make([]byte, len(ind.genome)), fn: ind.fn}
	for i := range child.genome {
		if rng.IntN(2) == 0 {
			child.genome[i] = ind.genome[i]
		} else {
			child.genome[i] = mate.genome[i]
		}
	}
	return child
}

// Hex renders the genome as an unsigned hexadecimal integer, leftmost
// genome bit most significant.
func (ind *Individual) Hex() string {
	n := new(big.Int)
	for i, b := range ind.genome {
		if b != 0 {
			n.SetBit(n, len(ind.genome)-1-i, 1)
		}
	}
	return "0x" + n.Text(16)
}

// String returns the genome as a binary digit string.
func (ind *Individual) String() string {
	buf := make([]byte, len(ind.genome))
	for i, b := range ind.genome {
		buf[i] = '0' + b
	}
	return string(buf)
}

// Package genetic implements a population-based stochastic optimizer
// over fixed-length bit strings. It owns the individual representation
// and its operators, pluggable selection and crossover strategies, and
// a policy-agnostic engine that sequences the generational cycle. The
// fitness function is an external capability supplied by the caller.
package genetic

import (
	"errors"
	"math/rand/v2"
)

// --- Core Function and Data Types ---

// FitnessFunc scores a genome. It must be a pure, side-effect-free
// function of the bit string; an error from any call fails the whole
// evaluation batch that invoked it.
type FitnessFunc func(genome []byte) (float64, error)

// Pair holds two parents drawn from the current population for
// recombination. Pairs are transient inputs to a crossover operator
// and are never persisted.
type Pair struct {
	Left  *Individual
	Right *Individual
}

// --- Core Operators as Interfaces ---

// PairingStrategy produces parent pairs from a scored population.
// Implementations must never pair an individual with itself and must
// not repeat an unordered pair within one call.
type PairingStrategy interface {
	// Pairs returns n parent pairs drawn from population.
	Pairs(population []*Individual, n int, rng *rand.Rand) ([]Pair, error)
}

// Policy supplies the three operations that define a concrete problem:
// how parents are selected, how pairs are recombined, and how the new
// generation is mutated. The engine holds a Policy and only sequences
// the steps; all strategy choices live here.
type Policy interface {
	// Selection chooses parent pairs from the current population.
	Selection(population []*Individual, rng *rand.Rand) ([]Pair, error)
	// Crossover recombines the pairs into the next generation.
	Crossover(pairs []Pair, rng *rand.Rand) ([]*Individual, error)
	// Mutate perturbs the new generation in place.
	Mutate(population []*Individual, rng *rand.Rand) error
}

// --- Failure Taxonomy ---

var (
	// ErrInvalidArgument reports out-of-range rates, pivots and sizes,
	// and mismatched pair counts. Surfaced immediately, never retried.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNoProgress reports a selection strategy that cannot produce
	// further valid pairs: a degenerate pool, exhausted rejection
	// sampling, or non-positive total fitness under roulette selection.
	ErrNoProgress = errors.New("selection cannot make progress")
)

package genetic

import (
	"fmt"
	"math/rand/v2"
)

// UniformCrossover produces one offspring per parent pair via uniform
// crossover, in pair order. It requires exactly populationSize pairs so
// the next generation keeps the population size.
func UniformCrossover(pairs []Pair, populationSize int, rng *rand.Rand) ([]*Individual, error) {
	if len(pairs) != populationSize {
		return nil, fmt.Errorf("%w: uniform crossover expects %d parent pairs, got %d", ErrInvalidArgument, populationSize, len(pairs))
	}
	next := make([]*Individual, len(pairs))
	for i, p := range pairs {
		next[i] = p.Left.CrossoverUniform(p.Right, rng)
	}
	return next, nil
}

// SinglePointCrossover produces two offspring per parent pair, splicing
// each pair's genomes at pivot in both directions. It requires exactly
// populationSize/2 pairs so the next generation keeps the population
// size. The left-first children come before the right-first children.
func SinglePointCrossover(pairs []Pair, populationSize, pivot int) ([]*Individual, error) {
	if len(pairs) != populationSize/2 {
		return nil, fmt.Errorf("%w: single point crossover expects %d parent pairs, got %d", ErrInvalidArgument, populationSize/2, len(pairs))
	}
	next := make([]*Individual, 0, populationSize)
	for _, p := range pairs {
		child, err := p.Left.CrossoverSinglePoint(p.Right, pivot)
		if err != nil {
			return nil, err
		}
		next = append(next, child)
	}
	for _, p := range pairs {
		child, err := p.Right.CrossoverSinglePoint(p.Left, pivot)
		if err != nil {
			return nil, err
		}
		next = append(next, child)
	}
	return next, nil
}

// MutateAll flips bits across the whole population in place at the
// given per-bit rate.
func MutateAll(population []*Individual, rate float64, rng *rand.Rand) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("%w: mutation rate must be in [0,1], got %v", ErrInvalidArgument, rate)
	}
	for _, ind := range population {
		if err := ind.Mutate(rate, rng); err != nil {
			return err
		}
	}
	return nil
}

package genetic

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/lixenwraith/evolve/parameter"
)

// Config holds engine construction parameters.
type Config struct {
	// PopulationSize is the number of individuals per generation
	PopulationSize int
	// BitLength is the genome length of every individual
	BitLength int
	// Workers bounds concurrent fitness evaluation
	Workers int
	// Seed for random number generation (0 for random seed)
	Seed uint64
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		PopulationSize: parameter.GAPopulationSize,
		BitLength:      parameter.GABitLength,
		Workers:        parameter.GAWorkers,
	}
}

// Stats summarises the fitness spread of one population.
type Stats struct {
	Mean float64
	Min  float64
	Max  float64
}

// Engine owns the population and sequences the generational cycle:
// evaluate, select, recombine, mutate. The Policy supplies the three
// operators; the engine itself is policy-agnostic. The caller drives
// iteration and decides when to stop.
type Engine struct {
	config     Config
	fn         FitnessFunc
	policy     Policy
	evaluator  *Evaluator
	rng        *rand.Rand
	population []*Individual
	generation int
	history    []Stats
}

// NewEngine builds a population of PopulationSize randomized
// individuals and eagerly evaluates generation zero.
func NewEngine(fn FitnessFunc, policy Policy, config Config) (*Engine, error) {
	if fn == nil {
		return nil, fmt.Errorf("%w: nil fitness function", ErrInvalidArgument)
	}
	if policy == nil {
		return nil, fmt.Errorf("%w: nil policy", ErrInvalidArgument)
	}
	if config.PopulationSize <= 0 {
		return nil, fmt.Errorf("%w: population size must be positive, got %d", ErrInvalidArgument, config.PopulationSize)
	}
	if config.BitLength <= 0 {
		return nil, fmt.Errorf("%w: bit length must be positive, got %d", ErrInvalidArgument, config.BitLength)
	}

	var rng *rand.Rand
	if config.Seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(config.Seed, config.Seed))
	}

	e := &Engine{
		config:    config,
		fn:        fn,
		policy:    policy,
		evaluator: NewEvaluator(config.Workers),
		rng:       rng,
	}

	e.population = make([]*Individual, config.PopulationSize)
	for i := range e.population {
		ind, err := NewIndividual(config.BitLength, fn)
		if err != nil {
			return nil, err
		}
		e.population[i] = ind.Randomize(rng)
	}

	if err := e.evaluator.Evaluate(context.Background(), e.population); err != nil {
		return nil, err
	}

	return e, nil
}

// Advance runs one full generational cycle: recompute all fitness,
// select parent pairs, recombine them into the replacement population,
// and mutate the newcomers in place. The previous generation is
// discarded wholesale. Each step completes before the next begins;
// only fitness evaluation runs in parallel internally.
func (e *Engine) Advance(ctx context.Context) error {
	if err := e.evaluator.Evaluate(ctx, e.population); err != nil {
		return err
	}

	stats, err := e.Stats()
	if err != nil {
		return err
	}
	e.history = append(e.history, stats)

	pairs, err := e.policy.Selection(e.population, e.rng)
	if err != nil {
		return fmt.Errorf("selection: %w", err)
	}

	next, err := e.policy.Crossover(pairs, e.rng)
	if err != nil {
		return fmt.Errorf("crossover: %w", err)
	}
	if len(next) != e.config.PopulationSize {
		return fmt.Errorf("%w: crossover produced %d individuals, want %d", ErrInvalidArgument, len(next), e.config.PopulationSize)
	}
	e.population = next

	if err := e.policy.Mutate(e.population, e.rng); err != nil {
		return fmt.Errorf("mutate: %w", err)
	}

	e.generation++
	return nil
}

// Stats returns mean, min and max fitness over the current population,
// evaluating any unscored individuals.
func (e *Engine) Stats() (Stats, error) {
	scores, err := allFitness(e.population)
	if err != nil {
		return Stats{}, err
	}
	s := Stats{Min: scores[0], Max: scores[0]}
	var total float64
	for _, score := range scores {
		if score < s.Min {
			s.Min = score
		}
		if score > s.Max {
			s.Max = score
		}
		total += score
	}
	s.Mean = total / float64(len(scores))
	return s, nil
}

// MeanFitness returns the mean fitness of the current population.
func (e *Engine) MeanFitness() (float64, error) {
	s, err := e.Stats()
	return s.Mean, err
}

// MaxFitness returns the fitness of the fittest individual.
func (e *Engine) MaxFitness() (float64, error) {
	s, err := e.Stats()
	return s.Max, err
}

// MinFitness returns the fitness of the least fit individual.
func (e *Engine) MinFitness() (float64, error) {
	s, err := e.Stats()
	return s.Min, err
}

// Best returns the fittest individual in the current population.
func (e *Engine) Best() (*Individual, error) {
	best := e.population[0]
	bestScore, err := best.Fitness()
	if err != nil {
		return nil, err
	}
	for _, ind := range e.population[1:] {
		score, err := ind.Fitness()
		if err != nil {
			return nil, err
		}
		if score > bestScore {
			best, bestScore = ind, score
		}
	}
	return best, nil
}

// Population returns the current generation. The engine retains
// exclusive ownership; callers must not mutate it.
func (e *Engine) Population() []*Individual { return e.population }

// Generation returns the number of completed advances.
func (e *Engine) Generation() int { return e.generation }

// History returns per-generation stats, recorded as each generation
// was evaluated at the start of its Advance.
func (e *Engine) History() []Stats { return e.history }

// String renders the population as one hexadecimal value per line.
func (e *Engine) String() string {
	lines := make([]string, len(e.population))
	for i, ind := range e.population {
		lines[i] = ind.Hex()
	}
	return strings.Join(lines, "\n")
}

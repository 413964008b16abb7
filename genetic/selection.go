package genetic

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/lixenwraith/evolve/parameter"
)

// ElitePairing draws parent pairs uniformly at random from the
// highest-fitness members of the population.
type ElitePairing struct {
	// PoolSize bounds the elite pool. Zero means "as many members as
	// the pairs requested". Values above the population size are
	// clamped.
	PoolSize int
}

// Pairs returns n pairs of distinct elites, no unordered pair repeated.
// Sampling is rejection-based under a fixed attempt budget; a pool that
// cannot yield n distinct pairs fails with ErrNoProgress.
func (s ElitePairing) Pairs(population []*Individual, n int, rng *rand.Rand) ([]Pair, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: pair count must be positive, got %d", ErrInvalidArgument, n)
	}

	poolSize := s.PoolSize
	if poolSize <= 0 {
		poolSize = n
	}
	if poolSize > len(population) {
		poolSize = len(population)
	}
	if poolSize < 2 {
		return nil, fmt.Errorf("%w: elite pool of %d cannot form a distinct pair", ErrNoProgress, poolSize)
	}
	if limit := poolSize * (poolSize - 1) / 2; n > limit {
		return nil, fmt.Errorf("%w: elite pool of %d yields at most %d distinct pairs, %d requested", ErrNoProgress, poolSize, limit, n)
	}

	scores, err := allFitness(population)
	if err != nil {
		return nil, err
	}

	// Rank indices by fitness descending; the population itself keeps
	// its order.
	order := make([]int, len(population))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return scores[order[i]] > scores[order[j]] })
	elite := order[:poolSize]

	pairs := make([]Pair, 0, n)
	seen := make(map[[2]int]bool, n)
	for len(pairs) < n {
		found := false
		for attempt := 0; attempt < parameter.GAPairAttemptBudget; attempt++ {
			a := elite[rng.IntN(poolSize)]
			b := elite[rng.IntN(poolSize)]
			if a == b {
				continue
			}
			k := pairKey(a, b)
			if seen[k] {
				continue
			}
			seen[k] = true
			pairs = append(pairs, Pair{Left: population[a], Right: population[b]})
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("%w: exhausted %d draws after %d of %d pairs", ErrNoProgress, parameter.GAPairAttemptBudget, len(pairs), n)
		}
	}
	return pairs, nil
}

// RoulettePairing selects parents with probability proportional to
// fitness. The population must have a positive total fitness.
type RoulettePairing struct{}

// Pairs returns n pairs of distinct individuals, no unordered pair
// repeated. Each parent is drawn independently by spinning the wheel:
// a uniform draw in [0, total fitness) matched against the cumulative
// fitness walk over the population in its given order.
func (RoulettePairing) Pairs(population []*Individual, n int, rng *rand.Rand) ([]Pair, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: pair count must be positive, got %d", ErrInvalidArgument, n)
	}
	if len(population) < 2 {
		return nil, fmt.Errorf("%w: population of %d cannot form a distinct pair", ErrNoProgress, len(population))
	}
	if limit := len(population) * (len(population) - 1) / 2; n > limit {
		return nil, fmt.Errorf("%w: population of %d yields at most %d distinct pairs, %d requested", ErrNoProgress, len(population), limit, n)
	}

	scores, err := allFitness(population)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, s := range scores {
		total += s
	}
	if total <= 0 {
		return nil, fmt.Errorf("%w: total fitness %v is not positive", ErrNoProgress, total)
	}

	spin := func() int {
		r := rng.Float64() * total
		var cumulative float64
		for i, s := range scores {
			cumulative += s
			if cumulative >= r {
				return i
			}
		}
		// Unreached unless float rounding leaves r above the final sum.
		return len(scores) - 1
	}

	pairs := make([]Pair, 0, n)
	seen := make(map[[2]int]bool, n)
	for len(pairs) < n {
		found := false
		for attempt := 0; attempt < parameter.GAPairAttemptBudget; attempt++ {
			a := spin()
			b := spin()
			if a == b {
				continue
			}
			k := pairKey(a, b)
			if seen[k] {
				continue
			}
			seen[k] = true
			pairs = append(pairs, Pair{Left: population[a], Right: population[b]})
			found = true
			break
		}
		if !found {
			return nil, fmt.Errorf("%w: exhausted %d draws after %d of %d pairs", ErrNoProgress, parameter.GAPairAttemptBudget, len(pairs), n)
		}
	}
	return pairs, nil
}

// pairKey canonicalises an unordered pair of population indices.
func pairKey(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// allFitness resolves every individual's score, computing uncached
// ones through the memoised path.
func allFitness(population []*Individual) ([]float64, error) {
	scores := make([]float64, len(population))
	for i, ind := range population {
		score, err := ind.Fitness()
		if err != nil {
			return nil, err
		}
		scores[i] = score
	}
	return scores, nil
}

package genetic

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/lixenwraith/evolve/parameter"
)

// Evaluator computes fitness for a whole population, fanning the calls
// out across a bounded pool of workers. Each score lands back in its
// individual's cache, so results always line up with input order
// regardless of completion order. A single failed fitness call fails
// the whole batch.
type Evaluator struct {
	workers int
}

// NewEvaluator returns an evaluator running at most workers concurrent
// fitness calls. Non-positive workers falls back to the default.
func NewEvaluator(workers int) *Evaluator {
	if workers <= 0 {
		workers = parameter.GAWorkers
	}
	return &Evaluator{workers: workers}
}

// Workers reports the concurrency bound.
func (e *Evaluator) Workers() int { return e.workers }

// Evaluate scores every individual in population, overwriting any
// cached value. The call is synchronous: it returns only once all
// scores are in or one fitness call has failed. An in-flight fitness
// call is never interrupted, so a hung fitness function blocks the
// whole batch.
func (e *Evaluator) Evaluate(ctx context.Context, population []*Individual) error {
	p := pool.New().WithMaxGoroutines(e.workers).WithErrors().WithContext(ctx)
	for _, ind := range population {
		p.Go(func(ctx context.Context) error {
			score, err := ind.fn(ind.genome)
			if err != nil {
				return fmt.Errorf("evaluate: %w", err)
			}
			ind.setFitness(score)
			return nil
		})
	}
	return p.Wait()
}

package parameter

// Genetic Algorithm - Engine Configuration
const (
	// GAPopulationSize is the number of individuals per generation
	GAPopulationSize = 256

	// GABitLength is the default genome length in bits
	GABitLength = 32

	// GAWorkers bounds concurrent fitness evaluation per batch
	GAWorkers = 16

	// GAMutationRate is the default per-bit flip probability (0.0-1.0)
	GAMutationRate = 0.01
)

// Genetic Algorithm - Selection
const (
	// GAPairAttemptBudget caps rejection-sampling draws when collecting
	// one distinct, unseen parent pair. Hitting the budget aborts the
	// selection instead of spinning on a degenerate pool.
	GAPairAttemptBudget = 10000
)

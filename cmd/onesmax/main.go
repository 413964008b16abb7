// Command onesmax maximises the number of one bits in a bit string:
// roulette selection into single-point crossover with a low fixed
// mutation rate, reporting fitness per generation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"

	"github.com/lixenwraith/evolve/genetic"
	"github.com/lixenwraith/evolve/parameter"
)

// onesPolicy pairs parents by roulette over half the population and
// recombines with single-point crossover at the genome midpoint.
type onesPolicy struct {
	populationSize int
	bitLength      int
	mutationRate   float64
}

func (p onesPolicy) Selection(population []*genetic.Individual, rng *rand.Rand) ([]genetic.Pair, error) {
	return genetic.RoulettePairing{}.Pairs(population, p.populationSize/2, rng)
}

func (p onesPolicy) Crossover(pairs []genetic.Pair, rng *rand.Rand) ([]*genetic.Individual, error) {
	return genetic.SinglePointCrossover(pairs, p.populationSize, p.bitLength/2)
}

func (p onesPolicy) Mutate(population []*genetic.Individual, rng *rand.Rand) error {
	return genetic.MutateAll(population, p.mutationRate, rng)
}

func countOnes(genome []byte) (float64, error) {
	var total float64
	for _, b := range genome {
		total += float64(b)
	}
	return total, nil
}

func main() {
	populationSize := flag.Int("pop", parameter.GAPopulationSize, "population size")
	bitLength := flag.Int("bits", parameter.GABitLength, "bit string length")
	maxGenerations := flag.Int("generations", 1000, "generation cap")
	mutationRate := flag.Float64("rate", parameter.GAMutationRate, "per-bit mutation rate")
	workers := flag.Int("workers", parameter.GAWorkers, "concurrent fitness evaluations")
	seed := flag.Uint64("seed", 0, "rng seed (0 for random)")
	flag.Parse()

	policy := onesPolicy{
		populationSize: *populationSize,
		bitLength:      *bitLength,
		mutationRate:   *mutationRate,
	}
	engine, err := genetic.NewEngine(countOnes, policy, genetic.Config{
		PopulationSize: *populationSize,
		BitLength:      *bitLength,
		Workers:        *workers,
		Seed:           *seed,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Maximising the number of 1s in the bit string.")
	fmt.Println("Population size:", *populationSize)
	fmt.Println("Bit string length:", *bitLength)

	ctx := context.Background()
	for generation := 0; generation < *maxGenerations; generation++ {
		stats, err := engine.Stats()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Average fitness: %.2f Best fitness: %.0f\n", stats.Mean, stats.Max)

		if stats.Max == float64(*bitLength) {
			best, err := engine.Best()
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("Found best possible individual %s in %d generations.\n", best.Hex(), generation)
			return
		}
		if err := engine.Advance(ctx); err != nil {
			log.Fatal(err)
		}
	}
	log.Fatalf("ran for %d generations without finding the best possible individual", *maxGenerations)
}

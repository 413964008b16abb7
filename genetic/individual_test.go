package genetic

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func onesFitness(genome []byte) (float64, error) {
	var total float64
	for _, b := range genome {
		total += float64(b)
	}
	return total, nil
}

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(42, 42))
}

func mustIndividual(t *testing.T, bits []byte, fn FitnessFunc) *Individual {
	t.Helper()
	ind, err := NewIndividualFromBits(bits, fn)
	if err != nil {
		t.Fatalf("NewIndividualFromBits: %v", err)
	}
	return ind
}

func checkBitString(t *testing.T, ind *Individual, wantLen int) {
	t.Helper()
	if ind.Len() != wantLen {
		t.Errorf("expected %d bits, got %d", wantLen, ind.Len())
	}
	for i, b := range ind.Genome() {
		if b > 1 {
			t.Errorf("bit %d is %d, want 0 or 1", i, b)
		}
	}
}

func TestNewIndividual_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -1, -32} {
		if _, err := NewIndividual(n, onesFitness); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("n=%d: expected ErrInvalidArgument, got %v", n, err)
		}
	}
}

func TestNewIndividual_ZeroGenome(t *testing.T) {
	ind, err := NewIndividual(32, onesFitness)
	if err != nil {
		t.Fatalf("NewIndividual: %v", err)
	}
	checkBitString(t, ind, 32)
	for i, b := range ind.Genome() {
		if b != 0 {
			t.Errorf("bit %d is %d, want 0", i, b)
		}
	}
}

func TestNewIndividualFromBits(t *testing.T) {
	src := []byte{1, 0, 1, 1}
	ind := mustIndividual(t, src, onesFitness)

	// The genome is copied, not aliased.
	src[0] = 0
	if ind.Bit(0) != 1 {
		t.Error("expected genome to be copied from source bits")
	}

	if _, err := NewIndividualFromBits(nil, onesFitness); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for empty genome, got %v", err)
	}
	if _, err := NewIndividualFromBits([]byte{0, 1, 2}, onesFitness); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for non-bit element, got %v", err)
	}
}

func TestRandomize(t *testing.T) {
	ind, err := NewIndividual(32, onesFitness)
	if err != nil {
		t.Fatalf("NewIndividual: %v", err)
	}
	if got := ind.Randomize(testRNG()); got != ind {
		t.Error("expected Randomize to return the receiver for chaining")
	}
	checkBitString(t, ind, 32)
}

func TestMutate_RateZero(t *testing.T) {
	ind := mustIndividual(t, []byte{1, 0, 1, 0, 1, 0, 1, 0}, onesFitness)
	if err := ind.Mutate(0, testRNG()); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if ind.String() != "10101010" {
		t.Errorf("expected genome unchanged at rate 0, got %s", ind)
	}
}

func TestMutate_RateOne(t *testing.T) {
	ind := mustIndividual(t, []byte{1, 0, 1, 0, 1, 0, 1, 0}, onesFitness)
	if err := ind.Mutate(1, testRNG()); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if ind.String() != "01010101" {
		t.Errorf("expected every bit flipped at rate 1, got %s", ind)
	}
}

func TestMutate_InvalidRate(t *testing.T) {
	ind := mustIndividual(t, []byte{1, 0}, onesFitness)
	for _, rate := range []float64{-0.1, 1.1} {
		if err := ind.Mutate(rate, testRNG()); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("rate=%v: expected ErrInvalidArgument, got %v", rate, err)
		}
	}
}

func TestFitness_Memoized(t *testing.T) {
	calls := 0
	fn := func(genome []byte) (float64, error) {
		calls++
		return onesFitness(genome)
	}
	ind := mustIndividual(t, []byte{1, 1, 0, 1}, fn)

	first, err := ind.Fitness()
	if err != nil {
		t.Fatalf("Fitness: %v", err)
	}
	second, err := ind.Fitness()
	if err != nil {
		t.Fatalf("Fitness: %v", err)
	}
	if first != 3 || second != 3 {
		t.Errorf("expected fitness 3, got %v then %v", first, second)
	}
	if calls != 1 {
		t.Errorf("expected 1 fitness call, got %d", calls)
	}
}

func TestMutate_InvalidatesCache(t *testing.T) {
	calls := 0
	fn := func(genome []byte) (float64, error) {
		calls++
		return onesFitness(genome)
	}
	ind := mustIndividual(t, []byte{1, 1, 0, 0}, fn)

	if _, err := ind.Fitness(); err != nil {
		t.Fatalf("Fitness: %v", err)
	}
	if err := ind.Mutate(1, testRNG()); err != nil {
		t.Fatalf("Mutate: %v", err)
	}

	score, err := ind.Fitness()
	if err != nil {
		t.Fatalf("Fitness: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected fitness recomputed after mutation, got %d calls", calls)
	}
	if score != 2 {
		t.Errorf("expected fitness 2 for flipped genome, got %v", score)
	}
}

func TestFitness_Error(t *testing.T) {
	wantErr := errors.New("scoring failed")
	ind := mustIndividual(t, []byte{1}, func(genome []byte) (float64, error) {
		return 0, wantErr
	})
	if _, err := ind.Fitness(); !errors.Is(err, wantErr) {
		t.Errorf("expected scoring error, got %v", err)
	}
}

func TestCrossoverSinglePoint(t *testing.T) {
	rng := testRNG()
	p1, _ := NewIndividual(32, onesFitness)
	p2, _ := NewIndividual(32, onesFitness)
	p1.Randomize(rng)
	p2.Randomize(rng)
	before1 := p1.String()
	before2 := p2.String()

	child, err := p1.CrossoverSinglePoint(p2, 16)
	if err != nil {
		t.Fatalf("CrossoverSinglePoint: %v", err)
	}
	checkBitString(t, child, 32)
	for i := 0; i < 16; i++ {
		if child.Bit(i) != p1.Bit(i) {
			t.Errorf("bit %d: expected parent 1's %d, got %d", i, p1.Bit(i), child.Bit(i))
		}
	}
	for i := 16; i < 32; i++ {
		if child.Bit(i) != p2.Bit(i) {
			t.Errorf("bit %d: expected parent 2's %d, got %d", i, p2.Bit(i), child.Bit(i))
		}
	}

	if p1.String() != before1 || p2.String() != before2 {
		t.Error("expected crossover to leave both parents unchanged")
	}
}

func TestCrossoverSinglePoint_PivotBounds(t *testing.T) {
	rng := testRNG()
	p1, _ := NewIndividual(8, onesFitness)
	p2, _ := NewIndividual(8, onesFitness)
	p1.Randomize(rng)
	p2.Randomize(rng)

	for _, pivot := range []int{-1, 9} {
		if _, err := p1.CrossoverSinglePoint(p2, pivot); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("pivot=%d: expected ErrInvalidArgument, got %v", pivot, err)
		}
	}

	// The boundary pivots are valid and copy one parent wholesale.
	child, err := p1.CrossoverSinglePoint(p2, 0)
	if err != nil {
		t.Fatalf("pivot 0: %v", err)
	}
	if child.String() != p2.String() {
		t.Errorf("pivot 0: expected copy of parent 2, got %s", child)
	}
	child, err = p1.CrossoverSinglePoint(p2, 8)
	if err != nil {
		t.Fatalf("pivot 8: %v", err)
	}
	if child.String() != p1.String() {
		t.Errorf("pivot 8: expected copy of parent 1, got %s", child)
	}
}

func TestCrossoverSinglePoint_LengthMismatch(t *testing.T) {
	p1, _ := NewIndividual(8, onesFitness)
	p2, _ := NewIndividual(4, onesFitness)
	if _, err := p1.CrossoverSinglePoint(p2, 2); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument for mismatched genomes, got %v", err)
	}
}

func TestCrossoverUniform(t *testing.T) {
	rng := testRNG()
	p1, _ := NewIndividual(32, onesFitness)
	p2, _ := NewIndividual(32, onesFitness)
	p1.Randomize(rng)
	p2.Randomize(rng)
	before1 := p1.String()
	before2 := p2.String()

	child := p1.CrossoverUniform(p2, rng)
	checkBitString(t, child, 32)
	for i := 0; i < 32; i++ {
		if child.Bit(i) != p1.Bit(i) && child.Bit(i) != p2.Bit(i) {
			t.Errorf("bit %d: %d comes from neither parent", i, child.Bit(i))
		}
	}

	if p1.String() != before1 || p2.String() != before2 {
		t.Error("expected crossover to leave both parents unchanged")
	}
}

func TestHex(t *testing.T) {
	tests := []struct {
		bits []byte
		want string
	}{
		{[]byte{1, 1, 1, 1}, "0xf"},
		{[]byte{1, 0, 1, 0, 1, 0, 1, 0}, "0xaa"},
		{[]byte{0, 0, 0, 1}, "0x1"},
		{[]byte{0, 0, 0, 0, 0, 0, 0, 0}, "0x0"},
		{[]byte{1, 0, 0, 0, 0, 0, 0, 0, 0}, "0x100"},
	}
	for _, tt := range tests {
		ind := mustIndividual(t, tt.bits, onesFitness)
		if got := ind.Hex(); got != tt.want {
			t.Errorf("%v: expected %s, got %s", tt.bits, tt.want, got)
		}
	}
}

func TestString(t *testing.T) {
	ind := mustIndividual(t, []byte{1, 0, 1}, onesFitness)
	if got := ind.String(); got != "101" {
		t.Errorf("expected 101, got %s", got)
	}
}

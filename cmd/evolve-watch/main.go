// Command evolve-watch runs the ones-maximisation problem under elite
// selection and renders the evolving population live in the terminal:
// per-generation stats, a best-fitness history strip, and the
// population hex dump. Quit with q, Escape or Ctrl-C.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/evolve/genetic"
	"github.com/lixenwraith/evolve/parameter"
)

const frameInterval = 50 * time.Millisecond

var historyRunes = []rune(" ▁▂▃▄▅▆▇█")

// watchPolicy pairs parents uniformly from an elite pool and
// recombines with uniform crossover, one offspring per pair.
type watchPolicy struct {
	populationSize int
	elitePool      int
	mutationRate   float64
}

func (p watchPolicy) Selection(population []*genetic.Individual, rng *rand.Rand) ([]genetic.Pair, error) {
	return genetic.ElitePairing{PoolSize: p.elitePool}.Pairs(population, p.populationSize, rng)
}

func (p watchPolicy) Crossover(pairs []genetic.Pair, rng *rand.Rand) ([]*genetic.Individual, error) {
	return genetic.UniformCrossover(pairs, p.populationSize, rng)
}

func (p watchPolicy) Mutate(population []*genetic.Individual, rng *rand.Rand) error {
	return genetic.MutateAll(population, p.mutationRate, rng)
}

func countOnes(genome []byte) (float64, error) {
	var total float64
	for _, b := range genome {
		total += float64(b)
	}
	return total, nil
}

type viewer struct {
	screen    tcell.Screen
	engine    *genetic.Engine
	bitLength int
	paused    bool
	converged bool
	audioInit bool
}

func newViewer(engine *genetic.Engine, bitLength int) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := &viewer{
		screen:    screen,
		engine:    engine,
		bitLength: bitLength,
	}

	if err := v.initAudio(); err != nil {
		// Non-fatal, the viewer can run without sound
		log.Printf("Audio initialization failed: %v", err)
	}

	return v, nil
}

func (v *viewer) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		v.audioInit = true
	}
	return err
}

// playChime sounds a short tone when the optimum is reached.
func (v *viewer) playChime() {
	if !v.audioInit {
		return
	}
	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, 880)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(150*time.Millisecond), sine))
}

func (v *viewer) drawText(x, y int, style tcell.Style, text string) {
	for i, r := range text {
		v.screen.SetContent(x+i, y, r, nil, style)
	}
}

func (v *viewer) draw() error {
	v.screen.Clear()
	width, height := v.screen.Size()

	stats, err := v.engine.Stats()
	if err != nil {
		return err
	}
	best, err := v.engine.Best()
	if err != nil {
		return err
	}

	headerStyle := tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	textStyle := tcell.StyleDefault
	dimStyle := tcell.StyleDefault.Foreground(tcell.ColorGray)
	goodStyle := tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)

	v.drawText(0, 0, headerStyle, "evolve-watch: ones maximisation")
	v.drawText(0, 1, textStyle, fmt.Sprintf("generation %-6d mean %-8.2f min %-6.0f max %-6.0f best %s",
		v.engine.Generation(), stats.Mean, stats.Min, stats.Max, best.Hex()))

	status := "running (space pauses, q quits)"
	statusStyle := dimStyle
	if v.paused {
		status = "paused"
	}
	if v.converged {
		status = "converged: every bit set"
		statusStyle = goodStyle
	}
	v.drawText(0, 2, statusStyle, status)

	// Best-fitness history strip, newest at the right edge.
	history := v.engine.History()
	if len(history) > width {
		history = history[len(history)-width:]
	}
	for i, record := range history {
		level := int(record.Max / float64(v.bitLength) * float64(len(historyRunes)-1))
		if level < 0 {
			level = 0
		}
		if level >= len(historyRunes) {
			level = len(historyRunes) - 1
		}
		v.screen.SetContent(i, 4, historyRunes[level], nil, headerStyle)
	}
	v.drawText(0, 5, dimStyle, "best fitness per generation")

	// Population hex dump, as many rows as fit.
	for i, ind := range v.engine.Population() {
		row := 7 + i
		if row >= height {
			break
		}
		style := textStyle
		if ind == best {
			style = goodStyle
		}
		v.drawText(0, row, style, ind.Hex())
	}

	v.screen.Show()
	return nil
}

func (v *viewer) run() error {
	eventCh := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventCh <- ev
		}
	}()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape:
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == 'q':
					return nil
				case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
					v.paused = !v.paused
				}
			case *tcell.EventResize:
				v.screen.Sync()
			}

		case <-ticker.C:
			if !v.paused && !v.converged {
				if err := v.engine.Advance(context.Background()); err != nil {
					return err
				}
				max, err := v.engine.MaxFitness()
				if err != nil {
					return err
				}
				if max == float64(v.bitLength) {
					v.converged = true
					v.playChime()
				}
			}
			if err := v.draw(); err != nil {
				return err
			}
		}
	}
}

func main() {
	populationSize := flag.Int("pop", 32, "population size")
	bitLength := flag.Int("bits", parameter.GABitLength, "bit string length")
	elitePool := flag.Int("elite", 12, "elite pool size for selection")
	mutationRate := flag.Float64("rate", parameter.GAMutationRate, "per-bit mutation rate")
	workers := flag.Int("workers", parameter.GAWorkers, "concurrent fitness evaluations")
	seed := flag.Uint64("seed", 0, "rng seed (0 for random)")
	flag.Parse()

	policy := watchPolicy{
		populationSize: *populationSize,
		elitePool:      *elitePool,
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

	v, err := newViewer(engine, *bitLength)
	if err != nil {
		log.Fatal(err)
	}
	defer v.screen.Fini()

	if err := v.run(); err != nil {
		v.screen.Fini()
		log.Fatal(err)
	}
}

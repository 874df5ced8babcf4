// Package ensemble runs independent seeded motion fields in parallel and
// pools their samples.
package ensemble

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/san-kum/rdksim/internal/motion"
)

var (
	ErrNoRuns       = errors.New("ensemble: at least one run is required")
	ErrNegativeSize = errors.New("ensemble: dots and ticks must not be negative")
)

// Sampler produces one run's samples from a seed. It must not share state
// with other runs.
type Sampler func(ctx context.Context, seed int64) ([]float64, error)

type Ensemble struct {
	numRuns   int
	seedStart int64
}

func New(numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{numRuns: numRuns, seedStart: seedStart}
}

// Run calls sample once per run with seeds seedStart, seedStart+1, ...
// Results are indexed by run. The first error in run order is returned.
func (e *Ensemble) Run(ctx context.Context, sample Sampler) ([][]float64, error) {
	if e.numRuns < 1 {
		return nil, ErrNoRuns
	}
	results := make([][]float64, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = sample(ctx, e.seedStart+int64(idx))
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Flatten concatenates per-run samples.
func Flatten(runs [][]float64) []float64 {
	n := 0
	for _, r := range runs {
		n += len(r)
	}
	out := make([]float64, 0, n)
	for _, r := range runs {
		out = append(out, r...)
	}
	return out
}

// Headings returns a Sampler that builds a field of dots in aperture, steps
// it ticks times with p and records every heading after each step.
func Headings(aperture motion.Aperture, dots, ticks int, p motion.Params) Sampler {
	return func(ctx context.Context, seed int64) ([]float64, error) {
		if dots < 0 || ticks < 0 {
			return nil, fmt.Errorf("%w: dots=%d ticks=%d", ErrNegativeSize, dots, ticks)
		}
		field := motion.NewField(aperture, rand.New(rand.NewSource(seed)))
		field.Reinitialize(dots)
		out := make([]float64, 0, dots*ticks)
		for i := 0; i < ticks; i++ {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			field.Step(p)
			out = field.Headings(out)
		}
		return out, nil
	}
}

package pipeline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/partisan/pkg/partisan/corpus"
	"github.com/cognicore/partisan/pkg/partisan/counts"
)

// ErrNoSeeds is returned by Calibrate when no seed is given.
var ErrNoSeeds = errors.New("calibration needs at least one seed")

// Summary holds the sample mean and standard deviation of a score.
type Summary struct {
	Mean   float64
	StdDev float64
}

// Calibration compares actual and null scores over several seeds.
type Calibration struct {
	Seeds   []int64
	Results []Result
	Actual  Summary
	Random  Summary
	Gap     Summary // Actual - Random
	// Exceedance is the fraction of scored seeds whose null score reached
	// the actual score.
	Exceedance float64
	Fallbacks  int // seeds that returned the default score
}

// Calibrate scores the same two groups once per seed. Each run owns its own
// generator; the count matrices are built once and only read afterwards.
// Summaries cover the seeds that did not fall back to the default score.
func Calibrate(docs1, docs2 []corpus.Document, vocabSize int, opts Options, seeds []int64) (Calibration, error) {
	if len(seeds) == 0 {
		return Calibration{}, ErrNoSeeds
	}
	g1 := counts.Build(docs1, vocabSize)
	g2 := counts.Build(docs2, vocabSize)

	cal := Calibration{Seeds: seeds, Results: make([]Result, 0, len(seeds))}
	actual := make([]float64, 0, len(seeds))
	random := make([]float64, 0, len(seeds))
	gap := make([]float64, 0, len(seeds))
	exceed := 0
	for _, seed := range seeds {
		o := opts
		o.Seed = seed
		res, err := Score(g1, g2, o)
		if err != nil {
			return Calibration{}, fmt.Errorf("seed %d: %w", seed, err)
		}
		cal.Results = append(cal.Results, res)
		if res.Fallback {
			cal.Fallbacks++
			continue
		}
		actual = append(actual, res.Actual)
		random = append(random, res.Random)
		gap = append(gap, res.Actual-res.Random)
		if res.Random >= res.Actual {
			exceed++
		}
	}

	if len(actual) == 0 {
		cal.Actual = Summary{Mean: opts.DefaultScore}
		cal.Random = Summary{Mean: opts.DefaultScore}
		return cal, nil
	}
	cal.Actual = summarize(actual)
	cal.Random = summarize(random)
	cal.Gap = summarize(gap)
	cal.Exceedance = float64(exceed) / float64(len(actual))
	return cal, nil
}

func summarize(x []float64) Summary {
	if len(x) == 1 {
		return Summary{Mean: x[0]}
	}
	mean, std := stat.MeanStdDev(x, nil)
	return Summary{Mean: mean, StdDev: std}
}

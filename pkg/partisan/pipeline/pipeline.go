// Package pipeline turns two groups of bag-of-words documents into a
// polarization score and a permuted-label null baseline.
package pipeline

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/cognicore/partisan/pkg/partisan/corpus"
	"github.com/cognicore/partisan/pkg/partisan/counts"
	"github.com/cognicore/partisan/pkg/partisan/leaveout"
	"github.com/cognicore/partisan/pkg/partisan/measure"
)

// Options configures a single group comparison.
type Options struct {
	Measure      measure.Measure // token partisanship rule
	Leaveout     bool            // leave-one-out bias correction
	DefaultScore float64         // returned when a group has fewer than MinDocs documents
	MinDocs      int
	MaxDocs      int // prefix cap per group; <= 0 disables truncation
	Seed         int64
}

// DefaultOptions returns the settings used for news-topic comparisons.
func DefaultOptions() Options {
	return Options{
		Measure:      measure.Posterior,
		Leaveout:     true,
		DefaultScore: 0.5,
		MinDocs:      10,
		MaxDocs:      999,
		Seed:         42,
	}
}

// Result is the outcome of one comparison.
type Result struct {
	Actual   float64 // polarization of the real group split
	Random   float64 // polarization after shuffling group labels
	Docs     int     // documents fed to the estimator (both groups)
	Fallback bool    // DefaultScore was returned for lack of data
}

// LeaveoutScore builds count matrices for both groups and scores them.
func LeaveoutScore(docs1, docs2 []corpus.Document, vocabSize int, opts Options) (Result, error) {
	return Score(counts.Build(docs1, vocabSize), counts.Build(docs2, vocabSize), opts)
}

// Score runs the comparison on prebuilt count matrices:
//
//  1. either group below MinDocs returns DefaultScore for both scores;
//  2. each group is truncated to its first MaxDocs rows;
//  3. the larger group is subsampled down to the size of the smaller;
//  4. tokens used by fewer than two documents overall are dropped, then
//     documents left without tokens;
//  5. the actual score is estimated on the real split;
//  6. the stacked rows are shuffled and split again at the same size to get
//     the null baseline.
//
// A single generator seeded with opts.Seed drives steps 3 and 6, so equal
// inputs and options give bit-identical results.
//
// The measure is validated only once step 1 passes: groups below MinDocs
// get the default scores whatever the measure.
func Score(g1, g2 *counts.Matrix, opts Options) (Result, error) {
	n1, _ := g1.Dims()
	n2, _ := g2.Dims()
	if n1 < opts.MinDocs || n2 < opts.MinDocs {
		return fallback(opts, n1+n2), nil
	}

	if !opts.Measure.Valid() {
		return Result{}, fmt.Errorf("%w: %d", measure.ErrUnknownMeasure, int(opts.Measure))
	}

	if opts.MaxDocs > 0 {
		g1 = g1.Head(opts.MaxDocs)
		g2 = g2.Head(opts.MaxDocs)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g1, g2 = Balance(rng, g1, g2)
	g1, g2 = FilterVocabulary(g1, g2)

	n1, _ = g1.Dims()
	n2, _ = g2.Dims()
	if n1 == 0 || n2 == 0 {
		return fallback(opts, n1+n2), nil
	}

	actual, err := leaveout.Polarization(g1, g2, opts.Measure, opts.Leaveout)
	if err != nil {
		return Result{}, fmt.Errorf("actual polarization: %w", err)
	}

	r1, r2 := Permute(rng, g1, g2)
	random, err := leaveout.Polarization(r1, r2, opts.Measure, opts.Leaveout)
	if err != nil {
		return Result{}, fmt.Errorf("random polarization: %w", err)
	}

	return Result{Actual: actual, Random: random, Docs: n1 + n2}, nil
}

func fallback(opts Options, docs int) Result {
	return Result{
		Actual:   opts.DefaultScore,
		Random:   opts.DefaultScore,
		Docs:     docs,
		Fallback: true,
	}
}

// Balance subsamples the larger group without replacement so that both
// groups have the same number of rows. Sampled rows keep their original
// relative order.
func Balance(rng *rand.Rand, g1, g2 *counts.Matrix) (*counts.Matrix, *counts.Matrix) {
	n1, _ := g1.Dims()
	n2, _ := g2.Dims()
	switch {
	case n1 > n2:
		g1 = g1.Rows(sample(rng, n1, n2))
	case n2 > n1:
		g2 = g2.Rows(sample(rng, n2, n1))
	}
	return g1, g2
}

// FilterVocabulary drops the tokens used by fewer than two documents across
// both groups, then the documents left without any token.
func FilterVocabulary(g1, g2 *counts.Matrix) (*counts.Matrix, *counts.Matrix) {
	n1, _ := g1.Dims()
	n2, _ := g2.Dims()
	all := counts.Stack(g1, g2)

	df := all.DocFreq()
	keep := make([]bool, len(df))
	for j, n := range df {
		keep[j] = n > 1
	}
	all = all.KeepColumns(keep)

	g1 = all.Slice(0, n1)
	g2 = all.Slice(n1, n1+n2)
	return g1.Rows(g1.NonEmptyRows()), g2.Rows(g2.NonEmptyRows())
}

// Permute shuffles the rows of both groups together and splits them again
// at the size of g1.
func Permute(rng *rand.Rand, g1, g2 *counts.Matrix) (*counts.Matrix, *counts.Matrix) {
	n1, _ := g1.Dims()
	all := counts.Stack(g1, g2)
	rows, _ := all.Dims()

	idx := make([]int, rows)
	for i := range idx {
		idx[i] = i
	}
	rng.Shuffle(len(idx), func(i, j int) {
		idx[i], idx[j] = idx[j], idx[i]
	})
	all = all.Rows(idx)
	return all.Slice(0, n1), all.Slice(n1, rows)
}

func sample(rng *rand.Rand, n, k int) []int {
	idx := rng.Perm(n)[:k]
	sort.Ints(idx)
	return idx
}

// Package leaveout implements the leave-out estimator of polarization
// between two groups of documents.
//
// The polarization of two groups is the average, over both groups, of the
// expected partisanship a document assigns to its own group: each document's
// token distribution is dotted with its group's token-partisanship scores.
// In-sample scores overstate polarization because a document contributes to
// the scores it is evaluated against. The leave-out estimate removes that
// bias by scoring each document with statistics computed as if the document
// were absent from its own group.
package leaveout

import (
	"errors"
	"fmt"

	"github.com/cognicore/partisan/pkg/partisan/counts"
	"github.com/cognicore/partisan/pkg/partisan/measure"
	"github.com/cognicore/partisan/pkg/partisan/party"
)

var (
	// ErrEmptyGroup is returned when a group has no documents.
	ErrEmptyGroup = errors.New("group has no documents")
	// ErrVocabularyMismatch is returned when the groups have different
	// vocabulary sizes.
	ErrVocabularyMismatch = errors.New("groups have different vocabularies")
)

// Polarization estimates the polarization between group1 and group2 under
// measure m. With leaveout set every document is scored against statistics
// that exclude it from its own group; the other group's statistics are left
// intact.
//
// An unrecognized measure returns measure.ErrUnknownMeasure. Rows without
// any token count are a precondition violation and panic.
func Polarization(group1, group2 *counts.Matrix, m measure.Measure, leaveout bool) (float64, error) {
	if !m.Valid() {
		return 0, fmt.Errorf("%w: %d", measure.ErrUnknownMeasure, int(m))
	}
	n1, v1 := group1.Dims()
	n2, v2 := group2.Dims()
	if n1 == 0 || n2 == 0 {
		return 0, ErrEmptyGroup
	}
	if v1 != v2 {
		return 0, fmt.Errorf("%w: %d != %d", ErrVocabularyMismatch, v1, v2)
	}

	dist1 := party.RowNormalize(group1)
	dist2 := party.RowNormalize(group2)
	stats1 := party.NewStats(group1)
	stats2 := party.NewStats(group2)

	if !leaveout {
		scores1, scores2, err := m.Scores(stats1, stats2)
		if err != nil {
			return 0, err
		}
		return 0.5 * (expectation(dist1, scores1) + expectation(dist2, scores2)), nil
	}

	val1 := leaveOneOut(group1, dist1, stats1, func(j int) float64 {
		s, _ := m.Token(j, stats1, stats2)
		return s
	})
	val2 := leaveOneOut(group2, dist2, stats2, func(j int) float64 {
		_, s := m.Token(j, stats1, stats2)
		return s
	})
	return 0.5 * (val1 + val2), nil
}

// expectation is (1/n) Σ_i dist_i · scores.
func expectation(dist *counts.Matrix, scores []float64) float64 {
	rows, _ := dist.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		var dot float64
		dist.DoRow(i, func(j int, p float64) {
			dot += p * scores[j]
		})
		sum += dot
	}
	return sum / float64(rows)
}

// leaveOneOut averages dist_i · score over the rows of c, where score is
// evaluated while row i is excluded from own. Only the tokens of row i enter
// the dot product, so each iteration costs O(nnz of row i).
func leaveOneOut(c, dist *counts.Matrix, own *party.Stats, score func(j int) float64) float64 {
	rows, _ := c.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		own.Exclude(c, i)
		var dot float64
		dist.DoRow(i, func(j int, p float64) {
			dot += p * score(j)
		})
		own.Include(c, i)
		sum += dot
	}
	return sum / float64(rows)
}

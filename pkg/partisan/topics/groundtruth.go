package topics

import (
	"fmt"
	"math"
)

// Annotated document leanings.
const (
	LabelAgainst = -1
	LabelNeutral = 0
	LabelFavor   = 1
)

// groundTruth scores each side by (Σ favor weights − Σ neutral weights) / n
// and returns half the absolute difference between the sides.
func (r *Ranker) groundTruth(ids1, ids2 []string, w1, w2 []float64) (float64, error) {
	s1, err := r.leaning(ids1, w1)
	if err != nil {
		return 0, err
	}
	s2, err := r.leaning(ids2, w2)
	if err != nil {
		return 0, err
	}
	return math.Abs(s1-s2) / 2, nil
}

func (r *Ranker) leaning(ids []string, weights []float64) (float64, error) {
	var favor, neutral float64
	for i, id := range ids {
		label, ok := r.Labels[id]
		if !ok {
			return 0, fmt.Errorf("%w: label for %q", ErrMissingDocument, id)
		}
		switch label {
		case LabelFavor:
			favor += weights[i]
		case LabelNeutral:
			neutral += weights[i]
		case LabelAgainst:
		default:
			return 0, fmt.Errorf("document %q has unknown label %d", id, label)
		}
	}
	return (favor - neutral) / float64(len(ids)), nil
}

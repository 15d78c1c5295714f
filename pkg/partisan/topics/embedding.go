package topics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// embedding compares the weighted mean embedding of each side:
// 0.5 * (1 - cos). A side without documents is the zero vector, whose
// cosine with anything is 0.
func (r *Ranker) embedding(ids1, ids2 []string, w1, w2 []float64) (float64, error) {
	dim, err := r.embeddingDim()
	if err != nil {
		return 0, err
	}
	e1, err := r.meanEmbedding(ids1, w1, dim)
	if err != nil {
		return 0, err
	}
	e2, err := r.meanEmbedding(ids2, w2, dim)
	if err != nil {
		return 0, err
	}
	return 0.5 * (1 - cosine(e1, e2)), nil
}

// embeddingPairwise averages cos(e1_i, e2_j) weighted by w1_i * w2_j, with
// the weights rescaled to mean one. Sides whose embeddings sum to zero,
// including empty sides, have no defined similarity and yield NaN.
func (r *Ranker) embeddingPairwise(ids1, ids2 []string, w1, w2 []float64) (float64, error) {
	v1, err := r.vectors(ids1)
	if err != nil {
		return 0, err
	}
	v2, err := r.vectors(ids2)
	if err != nil {
		return 0, err
	}
	if sumAll(v1) == 0 || sumAll(v2) == 0 {
		return math.NaN(), nil
	}

	weights := mat.NewDense(len(w1), len(w2), nil)
	weights.Outer(1, mat.NewVecDense(len(w1), w1), mat.NewVecDense(len(w2), w2))
	meanWeight := mat.Sum(weights) / float64(len(w1)*len(w2))

	var sum float64
	for i, a := range v1 {
		for j, b := range v2 {
			sum += cosine(a, b) * weights.At(i, j) / meanWeight
		}
	}
	sim := sum / float64(len(v1)*len(v2))
	return 0.5 * (1 - sim), nil
}

func (r *Ranker) embeddingDim() (int, error) {
	for _, v := range r.Embeddings {
		if len(v) > 0 {
			return len(v), nil
		}
	}
	return 0, ErrNoEmbeddings
}

func (r *Ranker) vectors(ids []string) ([]*mat.VecDense, error) {
	out := make([]*mat.VecDense, len(ids))
	for i, id := range ids {
		v, ok := r.Embeddings[id]
		if !ok || len(v) == 0 {
			return nil, fmt.Errorf("%w: embedding for %q", ErrMissingDocument, id)
		}
		out[i] = mat.NewVecDense(len(v), v)
	}
	return out, nil
}

func (r *Ranker) meanEmbedding(ids []string, weights []float64, dim int) (*mat.VecDense, error) {
	sum := make([]float64, dim)
	for i, id := range ids {
		v, ok := r.Embeddings[id]
		if !ok {
			return nil, fmt.Errorf("%w: embedding for %q", ErrMissingDocument, id)
		}
		if len(v) != dim {
			return nil, fmt.Errorf("embedding for %q has %d dimensions, want %d", id, len(v), dim)
		}
		floats.AddScaled(sum, weights[i], v)
	}
	if len(ids) > 0 {
		floats.Scale(1/float64(len(ids)), sum)
	}
	return mat.NewVecDense(dim, sum), nil
}

func cosine(a, b *mat.VecDense) float64 {
	na, nb := mat.Norm(a, 2), mat.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	return mat.Dot(a, b) / (na * nb)
}

func sumAll(vs []*mat.VecDense) float64 {
	var s float64
	for _, v := range vs {
		s += mat.Sum(v)
	}
	return s
}

package topics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/partisan/pkg/partisan/corpus"
	"github.com/cognicore/partisan/pkg/partisan/pipeline"
)

var (
	// ErrMissingDocument is returned when a selected document has no
	// counts, embedding or label.
	ErrMissingDocument = errors.New("selected document missing from input")
	// ErrNoEmbeddings is returned when an embedding method has no vectors.
	ErrNoEmbeddings = errors.New("no document embeddings")
)

// TopicScore is the polarization of one topic.
type TopicScore struct {
	Topic        int
	Words        string
	Polarization float64
	Random       float64 // null baseline, leave-out method only
	Docs         int
	Fallback     bool
}

// Ranker scores topics for a left and a right group of sources.
type Ranker struct {
	Method      Method
	Options     pipeline.Options
	Left        []string
	Right       []string
	Months      []string // empty selects every month
	Assignments []Assignment

	// Inputs used by the methods; only those of Method are required.
	Docs       []corpus.Document
	VocabSize  int
	Embeddings map[string][]float64
	Labels     map[string]int
	TopicWords map[int]string

	// OnTopic, when set, is called after each topic is scored.
	OnTopic func(TopicScore)

	docIndex map[string]int
}

// Rank scores every topic and returns them most polarized first. Topics
// with an undefined (NaN) score sort last.
func (r *Ranker) Rank(ctx context.Context, topics []int) ([]TopicScore, error) {
	out := make([]TopicScore, 0, len(topics))
	for _, topic := range topics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ts, err := r.ScoreTopic(topic)
		if err != nil {
			return nil, fmt.Errorf("topic %d: %w", topic, err)
		}
		if r.OnTopic != nil {
			r.OnTopic(ts)
		}
		out = append(out, ts)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Polarization, out[j].Polarization
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		return a > b
	})
	return out, nil
}

// ScoreTopic measures the polarization of a single topic.
func (r *Ranker) ScoreTopic(topic int) (TopicScore, error) {
	ids1, probs1 := SelectDocs(r.Assignments, topic, r.Left, r.Months, r.Options.MaxDocs, r.Options.MinDocs)
	ids2, probs2 := SelectDocs(r.Assignments, topic, r.Right, r.Months, r.Options.MaxDocs, r.Options.MinDocs)
	ts := TopicScore{Topic: topic, Words: r.TopicWords[topic]}

	if r.Method == LeaveOut {
		res, err := r.leaveOut(ids1, ids2)
		if err != nil {
			return ts, err
		}
		ts.Polarization = res.Actual
		ts.Random = res.Random
		ts.Docs = res.Docs
		ts.Fallback = res.Fallback
		return ts, nil
	}

	n := min(len(ids1), len(ids2))
	ids1, ids2 = ids1[:n], ids2[:n]
	w1, w2 := normalizeWeights(probs1[:n]), normalizeWeights(probs2[:n])
	ts.Docs = 2 * n

	var err error
	switch r.Method {
	case Embedding:
		ts.Polarization, err = r.embedding(ids1, ids2, w1, w2)
	case EmbeddingPairwise:
		ts.Polarization, err = r.embeddingPairwise(ids1, ids2, w1, w2)
	case GroundTruth:
		ts.Polarization, err = r.groundTruth(ids1, ids2, w1, w2)
	default:
		err = fmt.Errorf("%w: %v", ErrUnknownMethod, r.Method)
	}
	return ts, err
}

func (r *Ranker) leaveOut(ids1, ids2 []string) (pipeline.Result, error) {
	if r.docIndex == nil {
		r.docIndex = corpus.Index(r.Docs)
	}
	docs1, missing1 := corpus.Select(r.Docs, r.docIndex, ids1)
	docs2, missing2 := corpus.Select(r.Docs, r.docIndex, ids2)
	if missing := append(missing1, missing2...); len(missing) > 0 {
		return pipeline.Result{}, fmt.Errorf("%w: %v", ErrMissingDocument, missing)
	}
	return pipeline.LeaveoutScore(docs1, docs2, r.VocabSize, r.Options)
}

// normalizeWeights divides topic probabilities by their mean.
func normalizeWeights(probs []float64) []float64 {
	w := append([]float64(nil), probs...)
	if len(w) == 0 {
		return w
	}
	floats.Scale(1/stat.Mean(w, nil), w)
	return w
}

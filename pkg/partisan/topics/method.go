package topics

import (
	"errors"
	"fmt"
)

// ErrUnknownMethod reports an unrecognized polarization method.
var ErrUnknownMethod = errors.New("unknown polarization method")

// Method selects how a topic's polarization is measured.
type Method int

const (
	// LeaveOut runs the leave-out estimator on the documents' token counts.
	LeaveOut Method = iota
	// Embedding compares the probability-weighted mean embeddings of the
	// two sides.
	Embedding
	// EmbeddingPairwise averages the weighted cosine similarity of every
	// cross-side document pair.
	EmbeddingPairwise
	// GroundTruth uses annotated document leanings.
	GroundTruth
)

var methodNames = map[Method][2]string{
	LeaveOut:          {"leaveout", "lo"},
	Embedding:         {"embedding", "emb"},
	EmbeddingPairwise: {"embedding_pairwise", "emb_pairwise"},
	GroundTruth:       {"ground_truth", "gt"},
}

// ParseMethod accepts both the long and the short name of a method.
func ParseMethod(name string) (Method, error) {
	for m, names := range methodNames {
		if name == names[0] || name == names[1] {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

func (m Method) String() string {
	if names, ok := methodNames[m]; ok {
		return names[0]
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

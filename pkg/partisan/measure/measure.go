// Package measure scores how strongly each vocabulary token is associated
// with one of two groups.
//
// Three rules are supported. Posterior is asymmetric: group 1 scores a token
// with 1 - rho and group 2 with rho, where rho is the share of the token's
// relative frequency coming from group 2. MutualInformation and ChiSquare are
// symmetric and give both groups the same score.
package measure

import (
	"errors"
	"fmt"
	"math"

	"github.com/cognicore/partisan/pkg/partisan/party"
)

// ErrUnknownMeasure reports an unrecognized scoring rule.
var ErrUnknownMeasure = errors.New("unknown token partisanship measure")

// Measure selects a token-partisanship scoring rule.
type Measure int

const (
	Posterior Measure = iota
	MutualInformation
	ChiSquare
)

var names = [...]string{
	Posterior:         "posterior",
	MutualInformation: "mutual_information",
	ChiSquare:         "chi_square",
}

// Parse maps a configuration name to its Measure.
func Parse(name string) (Measure, error) {
	for m, n := range names {
		if n == name {
			return Measure(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMeasure, name)
}

func (m Measure) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Measure(%d)", int(m))
	}
	return names[m]
}

// Valid reports whether m is one of the known rules.
func (m Measure) Valid() bool {
	return m >= Posterior && m <= ChiSquare
}

// Symmetric reports whether both groups share one score vector.
func (m Measure) Symmetric() bool {
	return m != Posterior
}

// MarshalText implements encoding.TextMarshaler.
func (m Measure) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMeasure, int(m))
	}
	return []byte(names[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Measure) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Token returns the partisanship of token j for group 1 and group 2. It
// reads only the statistics of token j, which lets callers score the tokens
// of a single document after adjusting g1 or g2 in place.
func (m Measure) Token(j int, g1, g2 *party.Stats) (float64, float64) {
	switch m {
	case Posterior:
		rho := posterior(g1.Share(j), g2.Share(j))
		return 1 - rho, rho
	case MutualInformation:
		s := mutualInformation(g1.Present(j), g2.Present(j), g1.Absent(j), g2.Absent(j), g1.N, g2.N)
		return s, s
	case ChiSquare:
		s := chiSquare(g1.Present(j), g2.Present(j), g1.Absent(j), g2.Absent(j), g1.N, g2.N)
		return s, s
	}
	panic(fmt.Sprintf("measure: %v", m))
}

// Scores returns the score vectors of group 1 and group 2 over the whole
// vocabulary. For symmetric measures both results are the same slice.
func (m Measure) Scores(g1, g2 *party.Stats) ([]float64, []float64, error) {
	if !m.Valid() {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownMeasure, int(m))
	}
	v := g1.Len()
	s1 := make([]float64, v)
	if m.Symmetric() {
		for j := range s1 {
			s1[j], _ = m.Token(j, g1, g2)
		}
		return s1, s1, nil
	}
	s2 := make([]float64, v)
	for j := range s1 {
		s1[j], s2[j] = m.Token(j, g1, g2)
	}
	return s1, s2, nil
}

// posterior is q2 / (q1 + q2). A token neither group uses gives 0/0 = NaN,
// which is left to propagate.
func posterior(q1, q2 float64) float64 {
	return q2 / (q1 + q2)
}

// mutualInformation sums the pointwise contributions of the four
// (group, presence) cells, normalized by the number of users.
func mutualInformation(t1, t2, notT1, notT2, n1, n2 float64) float64 {
	n := n1 + n2
	allT := t1 + t2
	allNotT := n - allT + 4
	cell := func(x, marginal, group float64) float64 {
		return x * math.Log2(n*(x/(marginal*group)))
	}
	return 1 / n * (cell(t1, allT, n1) + cell(notT1, allNotT, n1) +
		cell(t2, allT, n2) + cell(notT2, allNotT, n2))
}

// chiSquare is the 2x2 contingency statistic of presence by group.
func chiSquare(t1, t2, notT1, notT2, n1, n2 float64) float64 {
	n := n1 + n2
	allT := t1 + t2
	allNotT := n - allT + 4
	d := t1*notT2 - notT1*t2
	return n * d * d / (allT * allNotT * (t1 + notT1) * (t2 + notT2))
}

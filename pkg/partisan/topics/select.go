// Package topics ranks the topics of a corpus by how polarized the two
// source groups' coverage of each topic is.
package topics

import (
	"sort"
)

// Assignment links a document to a topic, as produced by the topic model.
type Assignment struct {
	Doc    string  `csv:"idx_doc"`
	Topic  int     `csv:"idx_topic"`
	Source string  `csv:"source"`
	Month  string  `csv:"month"`
	Prob   float64 `csv:"prob"`
}

// SelectDocs returns the documents of topic published by one of sources
// (and, when months is not empty, in one of months), most probable first,
// at most maxDocs of them. Fewer than minDocs matches select nothing.
func SelectDocs(assignments []Assignment, topic int, sources, months []string, maxDocs, minDocs int) (docs []string, probs []float64) {
	srcSet := toSet(sources)
	monthSet := toSet(months)

	var matched []Assignment
	for _, a := range assignments {
		if a.Topic != topic {
			continue
		}
		if _, ok := srcSet[a.Source]; !ok {
			continue
		}
		if len(monthSet) > 0 {
			if _, ok := monthSet[a.Month]; !ok {
				continue
			}
		}
		matched = append(matched, a)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Prob > matched[j].Prob
	})
	if maxDocs > 0 && len(matched) > maxDocs {
		matched = matched[:maxDocs]
	}
	if len(matched) < minDocs {
		return nil, nil
	}

	docs = make([]string, len(matched))
	probs = make([]float64, len(matched))
	for i, a := range matched {
		docs[i] = a.Doc
		probs[i] = a.Prob
	}
	return docs, probs
}

// Topics returns the distinct topic ids of assignments in ascending order.
func Topics(assignments []Assignment) []int {
	seen := make(map[int]struct{})
	for _, a := range assignments {
		seen[a.Topic] = struct{}{}
	}
	out := make([]int, 0, len(seen))
	for t := range seen {
		out = append(out, t)
	}
	sort.Ints(out)
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// Package corpus holds the bag-of-words documents handed over by the
// corpus-builder and the vocabulary shared by both compared groups.
package corpus

import "fmt"

// TokenCount is one (token id, count) pair of a bag-of-words document.
type TokenCount struct {
	ID    int
	Count int
}

// Document is a single text unit after preprocessing. ID is the identifier
// used by topic assignments and annotations; it may be empty.
type Document struct {
	ID     string
	Tokens []TokenCount
}

// Len returns the total token count of the document.
func (d Document) Len() int {
	n := 0
	for _, tc := range d.Tokens {
		n += tc.Count
	}
	return n
}

// MaxTokenID returns the largest token id in docs, or -1 when none is present.
func MaxTokenID(docs []Document) int {
	max := -1
	for _, d := range docs {
		for _, tc := range d.Tokens {
			if tc.ID > max {
				max = tc.ID
			}
		}
	}
	return max
}

// VocabSize checks declared against the token ids of every document set.
// A declared size of zero or less is inferred as the largest id plus one.
func VocabSize(declared int, sets ...[]Document) (int, error) {
	maxID := -1
	for _, docs := range sets {
		if id := MaxTokenID(docs); id > maxID {
			maxID = id
		}
	}
	if declared <= 0 {
		return maxID + 1, nil
	}
	if maxID >= declared {
		return 0, fmt.Errorf("token id %d outside vocabulary of size %d", maxID, declared)
	}
	return declared, nil
}

// Index maps document ids to their position in docs. Documents without an
// ID are skipped; on duplicates the first occurrence wins.
func Index(docs []Document) map[string]int {
	idx := make(map[string]int, len(docs))
	for i, d := range docs {
		if d.ID == "" {
			continue
		}
		if _, ok := idx[d.ID]; !ok {
			idx[d.ID] = i
		}
	}
	return idx
}

// Select returns the documents named by ids, in the order of ids. Unknown
// ids are reported in missing.
func Select(docs []Document, idx map[string]int, ids []string) (selected []Document, missing []string) {
	selected = make([]Document, 0, len(ids))
	for _, id := range ids {
		i, ok := idx[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		selected = append(selected, docs[i])
	}
	return selected, missing
}

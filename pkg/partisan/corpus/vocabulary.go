package corpus

// Vocabulary is a bijection between token strings and dense integer ids.
type Vocabulary struct {
	tokens []string
	index  map[string]int
}

// NewVocabulary creates a vocabulary from tokens, assigning ids in order.
// Repeated tokens keep their first id.
func NewVocabulary(tokens []string) *Vocabulary {
	v := &Vocabulary{index: make(map[string]int, len(tokens))}
	for _, t := range tokens {
		v.Add(t)
	}
	return v
}

// Add returns the id of token, assigning the next free id if it is new.
func (v *Vocabulary) Add(token string) int {
	if id, ok := v.index[token]; ok {
		return id
	}
	id := len(v.tokens)
	v.tokens = append(v.tokens, token)
	v.index[token] = id
	return id
}

// ID looks up the id of token.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.index[token]
	return id, ok
}

// Token returns the token with the given id, or "" when out of range.
func (v *Vocabulary) Token(id int) string {
	if id < 0 || id >= len(v.tokens) {
		return ""
	}
	return v.tokens[id]
}

// Size returns the number of distinct tokens.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

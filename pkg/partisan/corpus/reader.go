package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadBagOfWords parses documents in the sparse text format
//
//	docID tokenID:count tokenID:count ...
//
// one document per line. A line holding only the document id is an empty
// document. Blank lines and lines starting with '#' are ignored.
func ReadBagOfWords(r io.Reader) ([]Document, error) {
	var docs []Document
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		doc := Document{
			ID:     fields[0],
			Tokens: make([]TokenCount, 0, len(fields)-1),
		}
		for _, kv := range fields[1:] {
			tc, err := parseTokenCount(kv)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			doc.Tokens = append(doc.Tokens, tc)
		}
		docs = append(docs, doc)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan bag-of-words: %w", err)
	}
	return docs, nil
}

// LoadBagOfWords reads a bag-of-words file from disk.
func LoadBagOfWords(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	docs, err := ReadBagOfWords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return docs, nil
}

func parseTokenCount(kv string) (TokenCount, error) {
	parts := strings.Split(kv, ":")
	if len(parts) != 2 {
		return TokenCount{}, fmt.Errorf("bad token count %q", kv)
	}
	id, err := strconv.Atoi(parts[0])
	if err != nil || id < 0 {
		return TokenCount{}, fmt.Errorf("bad token id in %q", kv)
	}
	count, err := strconv.Atoi(parts[1])
	if err != nil || count < 0 {
		return TokenCount{}, fmt.Errorf("bad count in %q", kv)
	}
	return TokenCount{ID: id, Count: count}, nil
}

// LoadVocabulary reads one token per line; the line order defines the ids.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	v := NewVocabulary(nil)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		v.Add(line)
	}
	return v, nil
}

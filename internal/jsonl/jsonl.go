// Package jsonl reads line-delimited JSON inputs.
package jsonl

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

// Embedding is one document vector.
type Embedding struct {
	Doc    string    `json:"idx_doc"`
	Vector []float64 `json:"embedding"`
}

// LoadEmbeddings reads a JSONL embeddings file into a map keyed by document
// id. Malformed lines are logged and skipped; a later line for the same
// document replaces an earlier one.
func LoadEmbeddings(path string) (map[string][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	defer f.Close()

	return ReadEmbeddings(f, path)
}

// ReadEmbeddings is LoadEmbeddings over a reader; name labels log lines.
func ReadEmbeddings(r io.Reader, name string) (map[string][]float64, error) {
	out := make(map[string][]float64)
	dim := 0

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}

		var e Embedding
		if err := json.Unmarshal([]byte(text), &e); err != nil {
			log.Printf("Warning: skipping malformed JSON at line %d in %s: %v", line, name, err)
			continue
		}
		if e.Doc == "" || len(e.Vector) == 0 {
			log.Printf("Warning: skipping line %d in %s: missing idx_doc or embedding", line, name)
			continue
		}
		if dim == 0 {
			dim = len(e.Vector)
		} else if len(e.Vector) != dim {
			return nil, fmt.Errorf("%s line %d: embedding has %d dimensions, want %d", name, line, len(e.Vector), dim)
		}
		out[e.Doc] = e.Vector
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no valid embeddings found in %s", name)
	}
	return out, nil
}

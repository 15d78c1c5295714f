package jsonl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadEmbeddings(t *testing.T) {
	in := strings.Join([]string{
		`{"idx_doc": "a", "embedding": [1, 0, 0]}`,
		``,
		`{not json`,
		`{"idx_doc": "b", "embedding": [0, 1, 0]}`,
		`{"idx_doc": "c"}`,
		`{"idx_doc": "a", "embedding": [0, 0, 1]}`,
	}, "\n")

	got, err := ReadEmbeddings(strings.NewReader(in), "test")
	require.NoError(t, err)
	assert.Equal(t, map[string][]float64{
		"a": {0, 0, 1},
		"b": {0, 1, 0},
	}, got)
}

func TestReadEmbeddingsDimensionMismatch(t *testing.T) {
	in := `{"idx_doc": "a", "embedding": [1, 0]}
{"idx_doc": "b", "embedding": [1, 0, 0]}`
	_, err := ReadEmbeddings(strings.NewReader(in), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestReadEmbeddingsEmpty(t *testing.T) {
	_, err := ReadEmbeddings(strings.NewReader("\n{bad\n"), "test")
	assert.Error(t, err)
}

func TestLoadEmbeddings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "emb.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(`{"idx_doc": "x", "embedding": [0.5, 0.5]}`+"\n"), 0o644))

	got, err := LoadEmbeddings(path)
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, got["x"])

	_, err = LoadEmbeddings(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

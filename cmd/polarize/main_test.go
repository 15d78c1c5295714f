package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/partisan/pkg/partisan/corpus"
	"github.com/cognicore/partisan/pkg/partisan/measure"
	"github.com/cognicore/partisan/pkg/partisan/pipeline"
)

func TestResolveOptionsDefaults(t *testing.T) {
	opts, seeds, err := resolveOptions(args{})
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultOptions(), opts)
	assert.Empty(t, seeds)
}

func TestResolveOptionsFlagsOverrideConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.yaml")
	require.NoError(t, os.WriteFile(path, []byte("measure: chi_square\nmin_docs: 3\ncalibration_seeds: [5, 6]\n"), 0o644))

	minDocs := 7
	name := "mutual_information"
	opts, seeds, err := resolveOptions(args{Config: path, MinDocs: &minDocs, Measure: &name, NoLeaveout: true})
	require.NoError(t, err)
	assert.Equal(t, measure.MutualInformation, opts.Measure)
	assert.Equal(t, 7, opts.MinDocs)
	assert.False(t, opts.Leaveout)
	assert.Equal(t, []int64{5, 6}, seeds)

	seed := int64(100)
	_, seeds, err = resolveOptions(args{Config: path, Seed: &seed, Seeds: 3})
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 101, 102}, seeds)
}

func TestResolveOptionsBadMeasure(t *testing.T) {
	name := "cosine"
	_, _, err := resolveOptions(args{Measure: &name})
	assert.ErrorIs(t, err, measure.ErrUnknownMeasure)
}

func TestResolveVocabSize(t *testing.T) {
	docs := []corpus.Document{{Tokens: []corpus.TokenCount{{ID: 4, Count: 1}}}}

	size, err := resolveVocabSize(args{}, docs)
	require.NoError(t, err)
	assert.Equal(t, 5, size)

	size, err = resolveVocabSize(args{VocabSize: 10}, docs)
	require.NoError(t, err)
	assert.Equal(t, 10, size)

	_, err = resolveVocabSize(args{VocabSize: 3}, docs)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "vocab.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\nd\ne\nf\n"), 0o644))
	size, err = resolveVocabSize(args{Vocab: path}, docs)
	require.NoError(t, err)
	assert.Equal(t, 6, size)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/partisan/pkg/partisan/measure"
	"github.com/cognicore/partisan/pkg/partisan/pipeline"
	"github.com/cognicore/partisan/pkg/partisan/topics"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "partisan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFull(t *testing.T) {
	path := writeConfig(t, `
measure: chi_square
leaveout: false
default_score: 0.25
min_docs: 5
max_docs: 100
seed: 7
method: emb
sources:
  left: [cnn, huff, nyt]
  right: [fox, breit, nyp]
topics: [1, 2, 8]
months: ["2020-01"]
calibration_seeds: [1, 2, 3]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"cnn", "huff", "nyt"}, cfg.Sources.Left)
	assert.Equal(t, []int{1, 2, 8}, cfg.Topics)
	assert.Equal(t, []int64{1, 2, 3}, cfg.CalibrationSeeds)
	assert.Equal(t, topics.Embedding, cfg.RankMethod())
	assert.Equal(t, pipeline.Options{
		Measure:      measure.ChiSquare,
		Leaveout:     false,
		DefaultScore: 0.25,
		MinDocs:      5,
		MaxDocs:      100,
		Seed:         7,
	}, cfg.Options())
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "sources: {left: [a], right: [b]}\n"))
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultOptions(), cfg.Options())
	assert.Equal(t, topics.LeaveOut, cfg.RankMethod())
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, pipeline.DefaultOptions(), cfg.Options())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "min_docs: [oops\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"unknown measure", "measure: cosine\n"},
		{"unknown method", "method: tfidf\n"},
		{"negative min_docs", "min_docs: -1\n"},
		{"max below min", "min_docs: 10\nmax_docs: 5\n"},
		{"one-sided sources", "sources: {left: [a]}\n"},
		{"overlapping sources", "sources: {left: [a, b], right: [b]}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestUnboundedMaxDocs(t *testing.T) {
	cfg, err := Parse([]byte("min_docs: 10\nmax_docs: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Options().MaxDocs)
}

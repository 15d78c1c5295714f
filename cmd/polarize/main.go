// Command polarize measures the polarization between two groups of
// bag-of-words documents and prints the result as JSON.
package main

import (
	"fmt"
	"log"
	"os"

	arg "github.com/alexflint/go-arg"
	humanize "github.com/dustin/go-humanize"

	"github.com/cognicore/partisan/pkg/partisan/config"
	"github.com/cognicore/partisan/pkg/partisan/corpus"
	"github.com/cognicore/partisan/pkg/partisan/measure"
	"github.com/cognicore/partisan/pkg/partisan/pipeline"
	"github.com/cognicore/partisan/pkg/partisan/report"
)

type args struct {
	Group1       string   `arg:"--group1,required" help:"bag-of-words file of the first group"`
	Group2       string   `arg:"--group2,required" help:"bag-of-words file of the second group"`
	Vocab        string   `arg:"--vocab" help:"vocabulary file, one token per line"`
	VocabSize    int      `arg:"--vocab-size" help:"vocabulary size; inferred from the largest token id when unset"`
	Config       string   `arg:"--config" help:"YAML config with estimator defaults"`
	Measure      *string  `arg:"--measure" help:"posterior, mutual_information or chi_square"`
	NoLeaveout   bool     `arg:"--no-leaveout" help:"score each document with its own counts included"`
	MinDocs      *int     `arg:"--min-docs"`
	MaxDocs      *int     `arg:"--max-docs" help:"per-group document cap, 0 for none"`
	DefaultScore *float64 `arg:"--default-score"`
	Seed         *int64   `arg:"--seed"`
	Seeds        int      `arg:"--seeds" help:"calibrate over this many consecutive seeds"`
}

func main() {
	var a args
	arg.MustParse(&a)

	opts, calSeeds, err := resolveOptions(a)
	if err != nil {
		log.Fatalf("options: %v", err)
	}

	docs1, err := corpus.LoadBagOfWords(a.Group1)
	if err != nil {
		log.Fatalf("load group 1: %v", err)
	}
	docs2, err := corpus.LoadBagOfWords(a.Group2)
	if err != nil {
		log.Fatalf("load group 2: %v", err)
	}
	log.Printf("loaded %s + %s documents", humanize.Comma(int64(len(docs1))), humanize.Comma(int64(len(docs2))))

	vocabSize, err := resolveVocabSize(a, docs1, docs2)
	if err != nil {
		log.Fatalf("vocabulary: %v", err)
	}
	log.Printf("vocabulary size %s, measure %s, leaveout %v", humanize.Comma(int64(vocabSize)), opts.Measure, opts.Leaveout)

	if len(calSeeds) > 0 {
		cal, err := pipeline.Calibrate(docs1, docs2, vocabSize, opts, calSeeds)
		if err != nil {
			log.Fatalf("calibrate: %v", err)
		}
		if err := report.WriteJSON(os.Stdout, report.CalibrationOf(cal, opts)); err != nil {
			log.Fatalf("write: %v", err)
		}
		return
	}

	res, err := pipeline.LeaveoutScore(docs1, docs2, vocabSize, opts)
	if err != nil {
		log.Fatalf("score: %v", err)
	}
	if res.Fallback {
		log.Printf("fewer than %d documents in a group, reporting default score", opts.MinDocs)
	}
	if err := report.WriteJSON(os.Stdout, report.ResultOf(res, opts)); err != nil {
		log.Fatalf("write: %v", err)
	}
}

// resolveOptions layers flags over the config file over the defaults.
func resolveOptions(a args) (pipeline.Options, []int64, error) {
	opts := pipeline.DefaultOptions()
	var seeds []int64
	if a.Config != "" {
		cfg, err := config.Load(a.Config)
		if err != nil {
			return opts, nil, fmt.Errorf("load config: %w", err)
		}
		opts = cfg.Options()
		seeds = cfg.CalibrationSeeds
	}

	if a.Measure != nil {
		m, err := measure.Parse(*a.Measure)
		if err != nil {
			return opts, nil, err
		}
		opts.Measure = m
	}
	if a.NoLeaveout {
		opts.Leaveout = false
	}
	if a.MinDocs != nil {
		opts.MinDocs = *a.MinDocs
	}
	if a.MaxDocs != nil {
		opts.MaxDocs = *a.MaxDocs
	}
	if a.DefaultScore != nil {
		opts.DefaultScore = *a.DefaultScore
	}
	if a.Seed != nil {
		opts.Seed = *a.Seed
	}

	if a.Seeds > 0 {
		seeds = make([]int64, a.Seeds)
		for i := range seeds {
			seeds[i] = opts.Seed + int64(i)
		}
	}
	return opts, seeds, nil
}

func resolveVocabSize(a args, docs ...[]corpus.Document) (int, error) {
	size := a.VocabSize
	if a.Vocab != "" {
		v, err := corpus.LoadVocabulary(a.Vocab)
		if err != nil {
			return 0, err
		}
		size = v.Size()
	}

	return corpus.VocabSize(size, docs...)
}

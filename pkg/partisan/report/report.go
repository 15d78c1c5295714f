// Package report turns ranking output into stored runs and renders results
// as CSV or JSON.
package report

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/partisan/pkg/partisan/pipeline"
	"github.com/cognicore/partisan/pkg/partisan/store"
	"github.com/cognicore/partisan/pkg/partisan/topics"
)

// Builder assigns time-ordered ids to runs.
type Builder struct {
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new run builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Options is the JSON form of pipeline.Options.
type Options struct {
	Measure      string  `json:"measure"`
	Leaveout     bool    `json:"leaveout"`
	DefaultScore float64 `json:"default_score"`
	MinDocs      int     `json:"min_docs"`
	MaxDocs      int     `json:"max_docs"`
	Seed         int64   `json:"seed"`
}

// OptionsOf converts pipeline options for encoding.
func OptionsOf(opts pipeline.Options) Options {
	return Options{
		Measure:      opts.Measure.String(),
		Leaveout:     opts.Leaveout,
		DefaultScore: opts.DefaultScore,
		MinDocs:      opts.MinDocs,
		MaxDocs:      opts.MaxDocs,
		Seed:         opts.Seed,
	}
}

// Build creates a run from ranked topic scores, keeping their order.
func (b *Builder) Build(method topics.Method, opts pipeline.Options, scores []topics.TopicScore) (store.Run, error) {
	optsJSON, err := json.Marshal(OptionsOf(opts))
	if err != nil {
		return store.Run{}, fmt.Errorf("encode options: %w", err)
	}

	now := b.now()
	run := store.Run{
		ID:        ulid.MustNew(ulid.Timestamp(now), b.entropy).String(),
		CreatedAt: now,
		Method:    method.String(),
		Options:   string(optsJSON),
		Scores:    make([]store.Score, len(scores)),
	}
	// The measure only applies to the leave-out estimator.
	if method == topics.LeaveOut {
		run.Measure = opts.Measure.String()
	}
	for i, ts := range scores {
		run.Scores[i] = store.Score{
			Topic:        ts.Topic,
			Label:        ts.Words,
			Polarization: ts.Polarization,
			Random:       ts.Random,
			Docs:         ts.Docs,
			Fallback:     ts.Fallback,
		}
	}
	return run, nil
}

// Row is one line of the ranking CSV.
type Row struct {
	Topic      int     `csv:"topic_idx"`
	Pola       float64 `csv:"pola"`
	Random     float64 `csv:"random"`
	Docs       int     `csv:"n_docs"`
	TopicWords string  `csv:"topic_words"`
}

// WriteCSV writes the run's scores in rank order.
func WriteCSV(w io.Writer, run store.Run) error {
	rows := make([]*Row, len(run.Scores))
	for i, s := range run.Scores {
		rows[i] = &Row{
			Topic:      s.Topic,
			Pola:       s.Polarization,
			Random:     s.Random,
			Docs:       s.Docs,
			TopicWords: s.Label,
		}
	}
	return gocsv.Marshal(&rows, w)
}

// Result is the JSON form of a single comparison. Undefined scores encode
// as null.
type Result struct {
	Actual   *float64 `json:"actual"`
	Random   *float64 `json:"random"`
	Docs     int      `json:"n_docs"`
	Fallback bool     `json:"fallback"`
	Options  Options  `json:"options"`
}

// Summary is the JSON form of pipeline.Summary.
type Summary struct {
	Mean   *float64 `json:"mean"`
	StdDev *float64 `json:"std"`
}

// Calibration is the JSON form of a multi-seed comparison.
type Calibration struct {
	Seeds      []int64  `json:"seeds"`
	Actual     Summary  `json:"actual"`
	Random     Summary  `json:"random"`
	Gap        Summary  `json:"gap"`
	Exceedance *float64 `json:"exceedance"`
	Fallbacks  int      `json:"fallbacks"`
	Runs       []Result `json:"runs"`
	Options    Options  `json:"options"`
}

// ResultOf converts a pipeline result for encoding.
func ResultOf(res pipeline.Result, opts pipeline.Options) Result {
	return Result{
		Actual:   finite(res.Actual),
		Random:   finite(res.Random),
		Docs:     res.Docs,
		Fallback: res.Fallback,
		Options:  OptionsOf(opts),
	}
}

// CalibrationOf converts a calibration for encoding.
func CalibrationOf(cal pipeline.Calibration, opts pipeline.Options) Calibration {
	out := Calibration{
		Seeds:      cal.Seeds,
		Actual:     summaryOf(cal.Actual),
		Random:     summaryOf(cal.Random),
		Gap:        summaryOf(cal.Gap),
		Exceedance: finite(cal.Exceedance),
		Fallbacks:  cal.Fallbacks,
		Runs:       make([]Result, len(cal.Results)),
		Options:    OptionsOf(opts),
	}
	for i, res := range cal.Results {
		o := opts
		o.Seed = cal.Seeds[i]
		out.Runs[i] = ResultOf(res, o)
	}
	return out
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func summaryOf(s pipeline.Summary) Summary {
	return Summary{Mean: finite(s.Mean), StdDev: finite(s.StdDev)}
}

// finite maps NaN and infinities to nil.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

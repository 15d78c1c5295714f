// Command rank-topics ranks the topics of a news corpus by how differently
// the left and right outlets cover them.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	arg "github.com/alexflint/go-arg"
	humanize "github.com/dustin/go-humanize"

	"github.com/cognicore/partisan/internal/jsonl"
	"github.com/cognicore/partisan/internal/tabular"
	"github.com/cognicore/partisan/pkg/partisan/config"
	"github.com/cognicore/partisan/pkg/partisan/corpus"
	"github.com/cognicore/partisan/pkg/partisan/report"
	"github.com/cognicore/partisan/pkg/partisan/store"
	"github.com/cognicore/partisan/pkg/partisan/store/sqlite"
	"github.com/cognicore/partisan/pkg/partisan/topics"
)

type args struct {
	Config      string `arg:"--config,required" help:"YAML run configuration"`
	Assignments string `arg:"--assignments" help:"CSV of idx_doc,idx_topic,source,month,prob"`
	Corpus      string `arg:"--corpus" help:"bag-of-words file (leaveout method)"`
	VocabSize   int    `arg:"--vocab-size" help:"vocabulary size; inferred when unset"`
	Embeddings  string `arg:"--embeddings" help:"JSONL document embeddings (embedding methods)"`
	Labels      string `arg:"--labels" help:"CSV of idx_doc,label (ground_truth method)"`
	TopicWords  string `arg:"--topic-words" help:"CSV of idx_topic,topic_words"`
	Out         string `arg:"--out" help:"CSV output path, stdout when unset"`
	DB          string `arg:"--db" help:"SQLite database to record the run in"`
	ListRuns    int    `arg:"--list-runs" help:"print the newest runs stored in --db and exit"`
}

func main() {
	var a args
	arg.MustParse(&a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, a); err != nil {
		log.Fatal(err)
	}
}

// run executes one invocation; deferred closes complete before main exits.
func run(ctx context.Context, a args) error {
	if a.ListRuns > 0 {
		if err := listRuns(ctx, a.DB, a.ListRuns, os.Stdout); err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		return nil
	}

	cfg, err := config.Load(a.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.Assignments == "" {
		return fmt.Errorf("--assignments required")
	}

	ranker, err := newRanker(cfg, a)
	if err != nil {
		return err
	}

	topicIDs := cfg.Topics
	if len(topicIDs) == 0 {
		topicIDs = topics.Topics(ranker.Assignments)
	}
	log.Printf("ranking %d topics with %s over %s assignments", len(topicIDs), ranker.Method, humanize.Comma(int64(len(ranker.Assignments))))

	done := 0
	ranker.OnTopic = func(ts topics.TopicScore) {
		done++
		log.Printf("[%d/%d] topic %d: polarization %.4f (%d docs)", done, len(topicIDs), ts.Topic, ts.Polarization, ts.Docs)
	}

	var st store.Store
	if a.DB != "" {
		if st, err = sqlite.OpenSQLite(ctx, a.DB); err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer st.Close()
	}

	out := io.Writer(os.Stdout)
	if a.Out != "" {
		f, err := os.Create(a.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	rec, err := rankAndRecord(ctx, ranker, topicIDs, out, st)
	if err != nil {
		return err
	}
	if st != nil {
		log.Printf("saved run %s to %s", rec.ID, a.DB)
	}
	return nil
}

// rankAndRecord ranks topicIDs, writes the CSV to out and, when st is not
// nil, stores the run.
func rankAndRecord(ctx context.Context, ranker *topics.Ranker, topicIDs []int, out io.Writer, st store.Store) (store.Run, error) {
	scores, err := ranker.Rank(ctx, topicIDs)
	if err != nil {
		return store.Run{}, fmt.Errorf("rank: %w", err)
	}

	run, err := report.New().Build(ranker.Method, ranker.Options, scores)
	if err != nil {
		return store.Run{}, fmt.Errorf("build run: %w", err)
	}
	if err := report.WriteCSV(out, run); err != nil {
		return store.Run{}, fmt.Errorf("write csv: %w", err)
	}

	if st != nil {
		if err := st.SaveRun(ctx, run); err != nil {
			return store.Run{}, fmt.Errorf("save run: %w", err)
		}
	}
	return run, nil
}

// newRanker loads the inputs the configured method needs.
func newRanker(cfg *config.Config, a args) (*topics.Ranker, error) {
	assignments, err := tabular.LoadAssignments(a.Assignments)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}

	r := &topics.Ranker{
		Method:      cfg.RankMethod(),
		Options:     cfg.Options(),
		Left:        cfg.Sources.Left,
		Right:       cfg.Sources.Right,
		Months:      cfg.Months,
		Assignments: assignments,
	}
	if len(r.Left) == 0 {
		return nil, fmt.Errorf("config has no sources")
	}

	if a.TopicWords != "" {
		if r.TopicWords, err = tabular.LoadTopicWords(a.TopicWords); err != nil {
			return nil, fmt.Errorf("load topic words: %w", err)
		}
	}

	switch r.Method {
	case topics.LeaveOut:
		if a.Corpus == "" {
			return nil, fmt.Errorf("--corpus required for %s", r.Method)
		}
		if r.Docs, err = corpus.LoadBagOfWords(a.Corpus); err != nil {
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		if r.VocabSize, err = corpus.VocabSize(a.VocabSize, r.Docs); err != nil {
			return nil, err
		}
		log.Printf("loaded %s documents, vocabulary %s", humanize.Comma(int64(len(r.Docs))), humanize.Comma(int64(r.VocabSize)))
	case topics.Embedding, topics.EmbeddingPairwise:
		if a.Embeddings == "" {
			return nil, fmt.Errorf("--embeddings required for %s", r.Method)
		}
		if r.Embeddings, err = jsonl.LoadEmbeddings(a.Embeddings); err != nil {
			return nil, fmt.Errorf("load embeddings: %w", err)
		}
	case topics.GroundTruth:
		if a.Labels == "" {
			return nil, fmt.Errorf("--labels required for %s", r.Method)
		}
		if r.Labels, err = tabular.LoadLabels(a.Labels); err != nil {
			return nil, fmt.Errorf("load labels: %w", err)
		}
	}
	return r, nil
}

func listRuns(ctx context.Context, dbPath string, limit int, w io.Writer) error {
	if dbPath == "" {
		return fmt.Errorf("--db required")
	}
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d topics\n", r.ID, humanize.Time(r.CreatedAt), r.Method, r.Measure, len(r.Scores))
	}
	return nil
}

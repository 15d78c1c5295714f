// Package tabular loads the CSV side inputs of topic ranking.
package tabular

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/cognicore/partisan/pkg/partisan/topics"
)

type labelRow struct {
	Doc   string `csv:"idx_doc"`
	Label int    `csv:"label"`
}

type topicWordsRow struct {
	Topic int    `csv:"idx_topic"`
	Words string `csv:"topic_words"`
}

// LoadAssignments reads idx_doc,idx_topic,source,month,prob rows.
func LoadAssignments(path string) ([]topics.Assignment, error) {
	var rows []topics.Assignment
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadAssignments is LoadAssignments over a reader.
func ReadAssignments(r io.Reader) ([]topics.Assignment, error) {
	var rows []topics.Assignment
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("decode assignments: %w", err)
	}
	return rows, nil
}

// LoadLabels reads idx_doc,label rows into a map.
func LoadLabels(path string) (map[string]int, error) {
	var rows []labelRow
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}
	out := make(map[string]int, len(rows))
	for _, r := range rows {
		out[r.Doc] = r.Label
	}
	return out, nil
}

// LoadTopicWords reads idx_topic,topic_words rows into a map.
func LoadTopicWords(path string) (map[int]string, error) {
	var rows []topicWordsRow
	if err := unmarshalFile(path, &rows); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(rows))
	for _, r := range rows {
		out[r.Topic] = r.Words
	}
	return out, nil
}

func unmarshalFile(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := gocsv.UnmarshalFile(f, out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// Package search provides full-text search over board tasks using an
// in-memory bleve index built from a snapshot of the collection.
package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/nibzard/orbit/internal/task"
)

// ErrEmptyQuery is returned when the query text is blank.
var ErrEmptyQuery = errors.New("empty search query")

// Hit is one matching task.
type Hit struct {
	ID    string
	Score float64
}

// Filter narrows a search.
type Filter struct {
	Status   task.Status   // empty means any
	Priority task.Priority // empty means any
}

// taskDocument is the indexed form of a task.
type taskDocument struct {
	Title    string `json:"title"`
	Tags     string `json:"tags"`
	Subtasks string `json:"subtasks"`
	Status   string `json:"status"`
	Priority string `json:"priority"`
}

// Index is a searchable snapshot of the board.
type Index struct {
	index bleve.Index
	size  int
}

// Build indexes tasks in memory.
func Build(tasks []task.Task) (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create search index: %w", err)
	}

	batch := idx.NewBatch()
	for _, t := range tasks {
		doc := taskDocument{
			Title:    t.Title,
			Tags:     strings.Join(t.Tags, " "),
			Subtasks: task.FormatSubtasks(t.Subtasks),
			Status:   string(t.Status),
			Priority: string(t.Priority),
		}
		if err := batch.Index(t.ID, doc); err != nil {
			idx.Close()
			return nil, fmt.Errorf("index task %s: %w", t.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		idx.Close()
		return nil, fmt.Errorf("index tasks: %w", err)
	}
	return &Index{index: idx, size: len(tasks)}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	docMapping := bleve.NewDocumentMapping()

	text := bleve.NewTextFieldMapping()
	text.Analyzer = standard.Name
	keyword := bleve.NewKeywordFieldMapping()

	docMapping.AddFieldMappingsAt("title", text)
	docMapping.AddFieldMappingsAt("tags", text)
	docMapping.AddFieldMappingsAt("subtasks", text)
	docMapping.AddFieldMappingsAt("status", keyword)
	docMapping.AddFieldMappingsAt("priority", keyword)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping
	indexMapping.DefaultAnalyzer = standard.Name
	return indexMapping
}

// Search returns tasks matching text, best match first. Each word may match
// the title, tags or subtasks; a trailing partial word also matches by prefix.
func (i *Index) Search(text string, filter Filter) ([]Hit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyQuery
	}
	if i.size == 0 {
		return []Hit{}, nil
	}

	fields := []string{"title", "tags", "subtasks"}
	textQuery := bleve.NewDisjunctionQuery()
	for _, field := range fields {
		match := bleve.NewMatchQuery(text)
		match.SetField(field)
		textQuery.AddQuery(match)

		words := strings.Fields(strings.ToLower(text))
		prefix := bleve.NewPrefixQuery(words[len(words)-1])
		prefix.SetField(field)
		textQuery.AddQuery(prefix)
	}

	queries := []query.Query{textQuery}
	if filter.Status != "" {
		q := bleve.NewTermQuery(string(filter.Status))
		q.SetField("status")
		queries = append(queries, q)
	}
	if filter.Priority != "" {
		q := bleve.NewTermQuery(string(filter.Priority))
		q.SetField("priority")
		queries = append(queries, q)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewConjunctionQuery(queries...), i.size, 0, false)
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		hits = append(hits, Hit{ID: h.ID, Score: h.Score})
	}
	return hits, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}

// Tasks runs a one-shot search over tasks and returns the matching tasks in
// relevance order.
func Tasks(tasks []task.Task, text string, filter Filter) ([]task.Task, error) {
	idx, err := Build(tasks)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	hits, err := idx.Search(text, filter)
	if err != nil {
		return nil, err
	}
	out := make([]task.Task, 0, len(hits))
	for _, h := range hits {
		if t, ok := task.Get(tasks, h.ID); ok {
			out = append(out, t)
		}
	}
	return out, nil
}

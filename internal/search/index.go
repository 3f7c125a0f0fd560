// Package search keeps a full-text Elasticsearch index of complaints.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	infralogger "github.com/jonesrussell/cityvoice/infrastructure/logger"
	"github.com/jonesrussell/cityvoice/internal/domain"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// ErrEmptyQuery is returned for blank search queries.
var ErrEmptyQuery = errors.New("search query is empty")

// Document is the indexed form of a complaint.
type Document struct {
	ID            int64     `json:"id"`
	Area          string    `json:"area"`
	Address       string    `json:"address"`
	Text          string    `json:"text"`
	CleanText     string    `json:"clean_text"`
	AISummary     string    `json:"ai_summary"`
	Category      string    `json:"category"`
	Priority      string    `json:"priority"`
	Status        string    `json:"status"`
	Zone          string    `json:"zone"`
	IsAIProcessed bool      `json:"is_ai_processed"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewDocument converts a complaint.
func NewDocument(c *domain.Complaint) Document {
	return Document{
		ID:            c.ID,
		Area:          c.Area,
		Address:       c.Address,
		Text:          c.Text,
		CleanText:     c.CleanText,
		AISummary:     c.AISummary,
		Category:      string(c.Category),
		Priority:      string(c.Priority),
		Status:        string(c.Status),
		Zone:          string(c.Zone),
		IsAIProcessed: c.IsAIProcessed,
		CreatedAt:     c.CreatedAt,
	}
}

var indexMapping = map[string]any{
	"mappings": map[string]any{
		"properties": map[string]any{
			"id":              map[string]any{"type": "long"},
			"area":            map[string]any{"type": "text", "fields": map[string]any{"keyword": map[string]any{"type": "keyword"}}},
			"address":         map[string]any{"type": "text"},
			"text":            map[string]any{"type": "text", "analyzer": "english"},
			"clean_text":      map[string]any{"type": "text"},
			"ai_summary":      map[string]any{"type": "text", "analyzer": "english"},
			"category":        map[string]any{"type": "keyword"},
			"priority":        map[string]any{"type": "keyword"},
			"status":          map[string]any{"type": "keyword"},
			"zone":            map[string]any{"type": "keyword"},
			"is_ai_processed": map[string]any{"type": "boolean"},
			"created_at":      map[string]any{"type": "date"},
		},
	},
}

// Index writes and queries complaint documents.
type Index struct {
	client *es.Client
	name   string
	logger infralogger.Logger
}

// NewIndex creates an index handle.
func NewIndex(client *es.Client, name string, logger infralogger.Logger) *Index {
	if logger == nil {
		logger = infralogger.NewNop()
	}
	return &Index{client: client, name: name, logger: logger}
}

// Name returns the index name.
func (i *Index) Name() string {
	return i.name
}

// EnsureIndex creates the index with its mapping when missing.
func (i *Index) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.name}, i.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	_ = res.Body.Close()

	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("error checking index existence: %s", res.String())
	}

	body, err := json.Marshal(indexMapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	created, err := i.client.Indices.Create(i.name,
		i.client.Indices.Create.WithBody(bytes.NewReader(body)),
		i.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	defer created.Body.Close()

	if created.IsError() {
		return responseError("create index", created)
	}

	i.logger.Info("Search index created", infralogger.String("index", i.name))
	return nil
}

// Put indexes or replaces the document of a complaint.
func (i *Index) Put(ctx context.Context, c *domain.Complaint) error {
	body, err := json.Marshal(NewDocument(c))
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := i.client.Index(i.name, bytes.NewReader(body),
		i.client.Index.WithDocumentID(strconv.FormatInt(c.ID, 10)),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index complaint %d: %w", c.ID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError("index complaint", res)
	}
	return nil
}

// Query narrows a full-text search.
type Query struct {
	Text  string
	Zone  domain.Zone
	Limit int
}

// Result is a search response.
type Result struct {
	Total int64      `json:"total"`
	Hits  []Document `json:"hits"`
}

// Search runs a fuzzy multi-field match, optionally restricted to a zone.
func (i *Index) Search(ctx context.Context, q Query) (*Result, error) {
	if q.Text == "" {
		return nil, ErrEmptyQuery
	}

	body, err := json.Marshal(buildQuery(q))
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	res, err := i.client.Search(
		i.client.Search.WithContext(ctx),
		i.client.Search.WithIndex(i.name),
		i.client.Search.WithBody(bytes.NewReader(body)),
		i.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError("search", res)
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source Document `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if decodeErr := json.NewDecoder(res.Body).Decode(&parsed); decodeErr != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", decodeErr)
	}

	out := &Result{Total: parsed.Hits.Total.Value, Hits: make([]Document, 0, len(parsed.Hits.Hits))}
	for _, h := range parsed.Hits.Hits {
		out.Hits = append(out.Hits, h.Source)
	}
	return out, nil
}

func buildQuery(q Query) map[string]any {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	boolQuery := map[string]any{
		"must": map[string]any{
			"multi_match": map[string]any{
				"query":     q.Text,
				"fields":    []string{"text^2", "ai_summary^2", "clean_text", "area", "address"},
				"fuzziness": "AUTO",
			},
		},
	}
	if q.Zone != "" {
		boolQuery["filter"] = []any{
			map[string]any{"term": map[string]any{"zone": string(q.Zone)}},
		}
	}

	return map[string]any{
		"size":  limit,
		"query": map[string]any{"bool": boolQuery},
		"sort":  []any{"_score", map[string]any{"created_at": "desc"}},
	}
}

func responseError(op string, res *esapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return fmt.Errorf("elasticsearch %s returned error [%d]: %s", op, res.StatusCode, string(body))
}

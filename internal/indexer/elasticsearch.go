package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/hh-tools/go-analyzer/internal/domain"
)

// ElasticsearchIndexer archives vacancies to Elasticsearch
type ElasticsearchIndexer struct {
	client    *elasticsearch.Client
	indexName string
}

// NewElasticsearchIndexer creates a new Elasticsearch indexer
func NewElasticsearchIndexer(addresses []string, indexName string) (*ElasticsearchIndexer, error) {
	cfg := elasticsearch.Config{
		Addresses: addresses,
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create es client: %w", err)
	}

	// Check connection
	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("es info: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("es error: %s", res.Status())
	}

	return &ElasticsearchIndexer{
		client:    client,
		indexName: indexName,
	}, nil
}

// Index archives a single vacancy
func (i *ElasticsearchIndexer) Index(ctx context.Context, vacancy *domain.Vacancy) error {
	data, err := json.Marshal(vacancy)
	if err != nil {
		return fmt.Errorf("marshal vacancy: %w", err)
	}

	req := esapi.IndexRequest{
		Index:      i.indexName,
		DocumentID: vacancy.ID,
		Body:       bytes.NewReader(data),
		Refresh:    "false",
	}

	res, err := req.Do(ctx, i.client)
	if err != nil {
		return fmt.Errorf("index request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index error: %s", res.Status())
	}

	return nil
}

// BulkIndex archives multiple vacancies at once
func (i *ElasticsearchIndexer) BulkIndex(ctx context.Context, vacancies []*domain.Vacancy) error {
	if len(vacancies) == 0 {
		return nil
	}

	var buf bytes.Buffer

	for _, vacancy := range vacancies {
		// Meta line
		meta := map[string]any{
			"index": map[string]any{
				"_index": i.indexName,
				"_id":    vacancy.ID,
			},
		}
		metaBytes, _ := json.Marshal(meta)
		buf.Write(metaBytes)
		buf.WriteByte('\n')

		// Document line
		docBytes, err := json.Marshal(vacancy)
		if err != nil {
			log.Printf("marshal vacancy %s: %v", vacancy.ID, err)
			continue
		}
		buf.Write(docBytes)
		buf.WriteByte('\n')
	}

	res, err := i.client.Bulk(bytes.NewReader(buf.Bytes()), i.client.Bulk.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("bulk request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("bulk error: %s", res.Status())
	}

	// Parse response to check for individual errors
	var bulkRes struct {
		Errors bool `json:"errors"`
		Items  []struct {
			Index struct {
				ID     string `json:"_id"`
				Status int    `json:"status"`
				Error  struct {
					Type   string `json:"type"`
					Reason string `json:"reason"`
				} `json:"error"`
			} `json:"index"`
		} `json:"items"`
	}

	if err := json.NewDecoder(res.Body).Decode(&bulkRes); err != nil {
		return fmt.Errorf("parse bulk response: %w", err)
	}

	if bulkRes.Errors {
		for _, item := range bulkRes.Items {
			if item.Index.Status >= 400 {
				log.Printf("bulk index error for %s: %s - %s",
					item.Index.ID, item.Index.Error.Type, item.Index.Error.Reason)
			}
		}
	}

	return nil
}

// EnsureIndex creates the index with Russian-friendly settings if it doesn't exist
func (i *ElasticsearchIndexer) EnsureIndex(ctx context.Context) error {
	res, err := i.client.Indices.Exists([]string{i.indexName})
	if err != nil {
		return fmt.Errorf("check index: %w", err)
	}
	res.Body.Close()

	if res.StatusCode == 200 {
		return nil // Index already exists
	}

	mapping := `{
		"settings": {
			"analysis": {
				"analyzer": {
					"russian_analyzer": {
						"type": "custom",
						"tokenizer": "standard",
						"filter": ["lowercase", "russian_stemmer"]
					}
				},
				"filter": {
					"russian_stemmer": {
						"type": "stemmer",
						"language": "russian"
					}
				}
			}
		},
		"mappings": {
			"properties": {
				"id": {"type": "keyword"},
				"name": {
					"type": "text",
					"analyzer": "russian_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"employer": {
					"type": "text",
					"analyzer": "russian_analyzer",
					"fields": {"keyword": {"type": "keyword"}}
				},
				"area": {"type": "keyword"},
				"salary_from": {"type": "integer"},
				"salary_to": {"type": "integer"},
				"salary_currency": {"type": "keyword"},
				"experience": {"type": "keyword"},
				"employment": {"type": "keyword"},
				"schedule": {"type": "keyword"},
				"requirement": {"type": "text", "analyzer": "russian_analyzer"},
				"responsibility": {"type": "text", "analyzer": "russian_analyzer"},
				"url": {"type": "keyword"},
				"published_at": {"type": "date"},
				"fetched_at": {"type": "date"}
			}
		}
	}`

	res, err = i.client.Indices.Create(
		i.indexName,
		i.client.Indices.Create.WithBody(bytes.NewReader([]byte(mapping))),
	)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("create index error: %s", res.Status())
	}

	return nil
}

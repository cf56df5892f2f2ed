// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mortgage-risk-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

// ElasticsearchClient wraps the Elasticsearch client
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

// NewElasticsearch creates a new Elasticsearch client
func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
	}

	if cfg.Username != "" {
		esCfg.Username = cfg.Username
		esCfg.Password = cfg.Password
	}

	es, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &ElasticsearchClient{Client: es}, nil
}

// Ping tests the Elasticsearch connection
func (c *ElasticsearchClient) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := c.Client.Ping(
		c.Client.Ping.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch ping error: %s", res.Status())
	}

	return nil
}

// Info returns cluster information
func (c *ElasticsearchClient) Info(ctx context.Context) error {
	res, err := c.Client.Info(
		c.Client.Info.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch info error: %s", res.Status())
	}

	return nil
}

// assessmentIndexMapping is the index template for assessment documents.
const assessmentIndexMapping = `{
	"mappings": {
		"properties": {
			"assessmentId":     { "type": "keyword" },
			"buyerName":        { "type": "text" },
			"riskLevel":        { "type": "keyword" },
			"reasons":          { "type": "text" },
			"suggestedActions": { "type": "text" },
			"riskFactors":      { "type": "text" },
			"assessedAt":       { "type": "date" }
		}
	}
}`

// EnsureIndex creates the assessment index with its mapping if it does not exist.
func (c *ElasticsearchClient) EnsureIndex(ctx context.Context, indexName string) error {
	existsRes, err := c.Client.Indices.Exists(
		[]string{indexName},
		c.Client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to check index %s: %w", indexName, err)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == 200 {
		return nil
	}

	createRes, err := c.Client.Indices.Create(
		indexName,
		c.Client.Indices.Create.WithContext(ctx),
		c.Client.Indices.Create.WithBody(strings.NewReader(assessmentIndexMapping)),
	)
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", indexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("index creation error for %s: %s", indexName, createRes.Status())
	}

	return nil
}

// Package elasticsearch wraps the Elasticsearch client with the two queries
// the auditor needs: counting documents matching a term condition, and
// fetching all of them in a single request.
package elasticsearch

import (
	"context"
	"errors"
	"fmt"
	"io"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/goccy/go-json"

	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/document"
	"github.com/jonesrussell/north-cloud/tools/validate-uri-fields/internal/logger"
)

// Operation names used in SearchServiceError.
const (
	OpPing  = "ping"
	OpCount = "count"
	OpFetch = "fetch"
)

// Client wraps the Elasticsearch client.
type Client struct {
	esClient *es.Client
	config   Config
	log      logger.Logger
}

// New creates a client without contacting the cluster.
func New(cfg Config, log logger.Logger) (*Client, error) {
	cfg.SetDefaults()
	if log == nil {
		log = logger.NewNop()
	}

	clientConfig := es.Config{
		Addresses:  []string{normalizeURL(cfg.URL)},
		MaxRetries: cfg.MaxRetries,
	}

	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	esClient, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &Client{
		esClient: esClient,
		config:   cfg,
		log:      log,
	}, nil
}

// NewClient creates a client and verifies the connection with a single ping.
func NewClient(ctx context.Context, cfg Config, log logger.Logger) (*Client, error) {
	client, err := New(cfg, log)
	if err != nil {
		return nil, err
	}

	client.log.Info("Verifying Elasticsearch connection", logger.String("url", normalizeURL(client.config.URL)))
	if pingErr := client.Ping(ctx); pingErr != nil {
		return nil, pingErr
	}

	return client, nil
}

// Ping verifies the Elasticsearch connection.
func (c *Client) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	res, err := c.esClient.Ping(c.esClient.Ping.WithContext(ctx))
	if err != nil {
		return &SearchServiceError{Op: OpPing, Err: err}
	}
	defer c.closeBody(res)

	if res.IsError() {
		return responseError(OpPing, "", res)
	}
	return nil
}

// Count returns the number of documents in index matching cond, read from
// the total hit count of a search issued without a size.
func (c *Client) Count(ctx context.Context, index string, cond Condition) (int, error) {
	resp, err := c.search(ctx, OpCount, index, cond,
		c.esClient.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return 0, err
	}

	c.log.Debug("Counted documents",
		logger.String("index", index),
		logger.Int("total", resp.Hits.Total.Value),
		logger.String("relation", resp.Hits.Total.Relation),
	)
	return resp.Hits.Total.Value, nil
}

// FetchAll returns the _source of up to limit documents in index matching
// cond. limit should be the value returned by Count, since the service
// otherwise returns a small default page.
func (c *Client) FetchAll(ctx context.Context, index string, cond Condition, limit int) ([]document.Value, error) {
	resp, err := c.search(ctx, OpFetch, index, cond,
		c.esClient.Search.WithSize(limit),
	)
	if err != nil {
		return nil, err
	}

	docs := make([]document.Value, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		docs = append(docs, hit.Source)
	}

	c.log.Debug("Fetched documents",
		logger.String("index", index),
		logger.Int("limit", limit),
		logger.Int("returned", len(docs)),
	)
	return docs, nil
}

func (c *Client) search(
	ctx context.Context,
	op, index string,
	cond Condition,
	opts ...func(*esapi.SearchRequest),
) (*searchResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	body, err := encodeBody(buildTermQuery(cond))
	if err != nil {
		return nil, &SearchServiceError{Op: op, Index: index, Err: err}
	}

	opts = append([]func(*esapi.SearchRequest){
		c.esClient.Search.WithContext(ctx),
		c.esClient.Search.WithIndex(index),
		c.esClient.Search.WithBody(body),
	}, opts...)

	res, err := c.esClient.Search(opts...)
	if err != nil {
		return nil, &SearchServiceError{Op: op, Index: index, Err: err}
	}
	defer c.closeBody(res)

	if res.IsError() {
		return nil, responseError(op, index, res)
	}

	var resp searchResponse
	if decodeErr := json.NewDecoder(res.Body).Decode(&resp); decodeErr != nil {
		return nil, &SearchServiceError{
			Op:     op,
			Index:  index,
			Status: res.StatusCode,
			Err:    fmt.Errorf("decode search response: %w", decodeErr),
		}
	}

	return &resp, nil
}

func (c *Client) closeBody(res *esapi.Response) {
	if res == nil || res.Body == nil {
		return
	}
	if closeErr := res.Body.Close(); closeErr != nil {
		c.log.Debug("Failed to close response body", logger.Error(closeErr))
	}
}

func responseError(op, index string, res *esapi.Response) error {
	body, readErr := io.ReadAll(res.Body)
	msg := string(body)
	if readErr != nil {
		msg = fmt.Sprintf("error reading response body: %v", readErr)
	}
	return &SearchServiceError{
		Op:     op,
		Index:  index,
		Status: res.StatusCode,
		Err:    errors.New(msg),
	}
}

// Implements the Notion API client with request pacing.

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the Notion API base URL.
	BaseURL = "https://api.notion.com/v1"
	// APIVersion is the pinned Notion API version.
	APIVersion = "2022-06-28"
	// RequestsPerSecond is Notion's documented average request rate.
	RequestsPerSecond = 3
	// pageSize is the maximum page size accepted by paginated endpoints.
	pageSize = 100
)

// Config holds what is needed to talk to one Notion database.
type Config struct {
	// Token is the integration token.
	Token string
	// DatabaseID is the database to export.
	DatabaseID string
	// BaseURL overrides the API endpoint. Defaults to BaseURL.
	BaseURL string
	// Timeout is the per-request HTTP timeout. Defaults to 30s.
	Timeout time.Duration
	// RequestsPerSecond caps the request rate. Defaults to RequestsPerSecond.
	RequestsPerSecond float64
}

// Validate checks that the required fields are set.
func (c *Config) Validate() error {
	if c.Token == "" {
		return errors.New("notion token is required")
	}
	if c.DatabaseID == "" {
		return errors.New("notion database ID is required")
	}
	return nil
}

// Client is a paced Notion API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a new Notion API client.
func NewClient(cfg *Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rps := cfg.RequestsPerSecond
	if rps == 0 {
		rps = RequestsPerSecond
	}
	return &Client{
		token:   cfg.Token,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// do performs an HTTP request once the limiter allows it.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", APIVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{}
		if err := json.Unmarshal(respBody, apiErr); err != nil || apiErr.Message == "" {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}
		if apiErr.Status == 0 {
			apiErr.Status = resp.StatusCode
		}
		return nil, apiErr
	}

	return respBody, nil
}

// QueryRequest is the request body for the database query endpoint.
type QueryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

// QueryDatabase returns one batch of pages of a database. An empty cursor
// requests the first batch.
func (c *Client) QueryDatabase(ctx context.Context, databaseID, cursor string) (*QueryResponse, error) {
	req := &QueryRequest{StartCursor: cursor, PageSize: pageSize}
	data, err := c.do(ctx, http.MethodPost, "/databases/"+url.PathEscape(databaseID)+"/query", req)
	if err != nil {
		return nil, err
	}

	var resp QueryResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse query response: %w", err)
	}
	return &resp, nil
}

// GetBlockChildren retrieves one batch of the children of a block.
func (c *Client) GetBlockChildren(ctx context.Context, blockID, cursor string) (*BlocksResponse, error) {
	q := url.Values{}
	q.Set("page_size", fmt.Sprint(pageSize))
	if cursor != "" {
		q.Set("start_cursor", cursor)
	}

	data, err := c.do(ctx, http.MethodGet, "/blocks/"+url.PathEscape(blockID)+"/children?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp BlocksResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse blocks response: %w", err)
	}
	return &resp, nil
}

// GetBlockChildrenAll retrieves all children of a block, handling pagination.
func (c *Client) GetBlockChildrenAll(ctx context.Context, blockID string) ([]Block, error) {
	var blocks []Block
	var cursor string

	for {
		resp, err := c.GetBlockChildren(ctx, blockID, cursor)
		if err != nil {
			return nil, err
		}

		blocks = append(blocks, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			break
		}
		cursor = *resp.NextCursor
	}

	return blocks, nil
}

// GetBlockChildrenRecursive retrieves all children of a block recursively.
// Children are stored in each block's Children field, not flattened.
func (c *Client) GetBlockChildrenRecursive(ctx context.Context, blockID string) ([]Block, error) {
	blocks, err := c.GetBlockChildrenAll(ctx, blockID)
	if err != nil {
		return nil, err
	}

	for i := range blocks {
		if blocks[i].HasChildren {
			children, err := c.GetBlockChildrenRecursive(ctx, blocks[i].ID)
			if err != nil {
				return nil, err
			}
			blocks[i].Children = children
		}
	}

	return blocks, nil
}

// PageToMarkdown fetches the block tree of a page and converts it to
// Markdown blocks.
func (c *Client) PageToMarkdown(ctx context.Context, pageID string) ([]MDBlock, error) {
	blocks, err := c.GetBlockChildrenRecursive(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to get blocks for page %s: %w", pageID, err)
	}
	return BlocksToMarkdown(blocks), nil
}

// Package postgrest reads and writes the sales table through a Supabase
// (PostgREST) REST endpoint.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultPageSize matches the default max-rows of a Supabase project.
const DefaultPageSize = 1000

// DefaultTieBreaker is the unique column appended to the page ordering.
const DefaultTieBreaker = "id"

// Config holds the endpoint credentials.
type Config struct {
	URL      string
	Key      string
	PageSize int
}

// Client implements repository.RecordStore over PostgREST.
type Client struct {
	baseURL    string
	key        string
	pageSize   int
	tieBreaker string
	http       *retryablehttp.Client
}

var _ repository.RecordStore = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithRetryMax sets how many times a failed request is retried.
func WithRetryMax(n int) Option {
	return func(c *Client) { c.http.RetryMax = n }
}

// WithTieBreaker sets the unique column used to order pages. An empty name
// disables it for tables without such a column.
func WithTieBreaker(column string) Option {
	return func(c *Client) { c.tieBreaker = column }
}

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http.HTTPClient = hc }
}

// New cria um novo cliente PostgREST.
func New(cfg Config, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" || strings.TrimSpace(cfg.Key) == "" {
		return nil, fmt.Errorf("postgrest: url and key are required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("postgrest: invalid url: %w", err)
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = 30 * time.Second

	c := &Client{baseURL: base, key: cfg.Key, pageSize: cfg.PageSize, tieBreaker: DefaultTieBreaker, http: rc}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) Name() string { return "supabase" }

func (c *Client) tableURL(table string, params url.Values) string {
	u := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, method, rawURL string, body interface{}) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *retryablehttp.Request) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("postgrest %s %s: status %d: %s",
			req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return resp, nil
}

// FetchRecords pages through the table until the server returns a short page
// or the query limit is reached. Rows without a usable date are dropped.
func (c *Client) FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error) {
	table := q.Table
	if table == "" {
		table = entity.DefaultTable
	}

	out := make([]entity.Record, 0)
	offset := 0
	for {
		page := c.pageSize
		if q.Limit > 0 && q.Limit-offset < page {
			page = q.Limit - offset
		}

		params := url.Values{}
		params.Set("select", selectClause(q.Columns))
		if order := c.orderClause(q); order != "" {
			params.Set("order", order)
		}
		params.Set("limit", strconv.Itoa(page))
		if offset > 0 {
			params.Set("offset", strconv.Itoa(offset))
		}

		rows, err := c.fetchPage(ctx, c.tableURL(table, params))
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if rec, ok := entity.RecordFromRow(row); ok {
				out = append(out, rec)
			}
		}

		offset += len(rows)
		if len(rows) < page || (q.Limit > 0 && offset >= q.Limit) {
			return out, nil
		}
	}
}

func (c *Client) orderClause(q entity.Query) string {
	dir := "asc"
	if q.Descending {
		dir = "desc"
	}
	var terms []string
	if q.OrderBy != "" {
		terms = append(terms, q.OrderBy+"."+dir)
	}
	if c.tieBreaker != "" && c.tieBreaker != q.OrderBy {
		terms = append(terms, c.tieBreaker+"."+dir)
	}
	return strings.Join(terms, ",")
}

func (c *Client) fetchPage(ctx context.Context, rawURL string) ([]map[string]any, error) {
	req, err := c.newRequest(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("postgrest: decode rows: %w", err)
	}
	return rows, nil
}

func selectClause(cols []string) string {
	if len(cols) == 0 {
		return "*"
	}
	return strings.Join(cols, ",")
}

// InsertRecords posts the records in batches and returns how many were stored.
func (c *Client) InsertRecords(ctx context.Context, table string, records []entity.Record, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	inserted := 0
	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		payload := make([]map[string]any, 0, end-start)
		for _, r := range records[start:end] {
			payload = append(payload, rowOf(r))
		}
		body, err := json.Marshal(payload)
		if err != nil {
			return inserted, err
		}

		req, err := c.newRequest(ctx, http.MethodPost, c.tableURL(table, nil), bytes.NewReader(body))
		if err != nil {
			return inserted, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=minimal")

		resp, err := c.do(req)
		if err != nil {
			return inserted, fmt.Errorf("batch %d: %w", start/batchSize+1, err)
		}
		resp.Body.Close()
		inserted += end - start
	}
	return inserted, nil
}

// ClearRecords deletes every row of the table.
func (c *Client) ClearRecords(ctx context.Context, table string) error {
	params := url.Values{}
	params.Set("id", "neq.0")
	req, err := c.newRequest(ctx, http.MethodDelete, c.tableURL(table, params), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// CountRecords asks for an exact count and reads it from Content-Range.
func (c *Client) CountRecords(ctx context.Context, table string) (int, error) {
	params := url.Values{}
	params.Set("select", "*")
	req, err := c.newRequest(ctx, http.MethodHead, c.tableURL(table, params), nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Prefer", "count=exact")

	resp, err := c.do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return parseContentRange(resp.Header.Get("Content-Range"))
}

// parseContentRange reads the total of "0-24/3573" or "*/0".
func parseContentRange(v string) (int, error) {
	i := strings.LastIndex(v, "/")
	if i < 0 || i == len(v)-1 {
		return 0, fmt.Errorf("postgrest: unexpected content-range %q", v)
	}
	total := v[i+1:]
	if total == "*" {
		return 0, fmt.Errorf("postgrest: count not returned")
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("postgrest: unexpected content-range %q", v)
	}
	return n, nil
}

func rowOf(r entity.Record) map[string]any {
	row := map[string]any{
		"date":        r.Date.Format(entity.DateLayout),
		"region":      r.Region,
		"product":     r.Product,
		"category":    r.Category,
		"revenue":     r.Revenue,
		"units_sold":  r.Units,
		"customer_id": r.CustomerID,
	}
	if r.ProfitMargin != nil {
		row["profit_margin"] = *r.ProfitMargin
	}
	if r.Profit != nil {
		row["profit"] = *r.Profit
	}
	return row
}

// Package sheets reads the sales table from a Google Sheets range whose
// first row holds the column names.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/diillson/sales-dashboard-go/internal/domain/repository"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// DefaultRange is read when no range is configured.
const DefaultRange = "sales_data!A:I"

type valuesGetter interface {
	GetValues(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error)
}

type serviceGetter struct {
	svc *gsheet.Service
}

func (g serviceGetter) GetValues(ctx context.Context, spreadsheetID, rng string) ([][]interface{}, error) {
	resp, err := g.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

// Client implements repository.RecordSource over the Sheets API (read only).
type Client struct {
	values        valuesGetter
	spreadsheetID string
	rng           string
}

var _ repository.RecordSource = (*Client)(nil)

// New builds a client authenticated with a service account file.
func New(ctx context.Context, spreadsheetID, rng, credentialsFile string) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if strings.TrimSpace(credentialsFile) == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_APPLICATION_CREDENTIALS)")
	}

	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}
	return newClient(serviceGetter{svc: svc}, spreadsheetID, rng), nil
}

func newClient(values valuesGetter, spreadsheetID, rng string) *Client {
	if strings.TrimSpace(rng) == "" {
		rng = DefaultRange
	}
	return &Client{values: values, spreadsheetID: spreadsheetID, rng: rng}
}

func (c *Client) Name() string { return "google-sheets" }

// FetchRecords reads the whole range; ordering and limit are applied locally.
func (c *Client) FetchRecords(ctx context.Context, q entity.Query) ([]entity.Record, error) {
	values, err := c.values.GetValues(ctx, c.spreadsheetID, c.rng)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.rng, err)
	}

	out := make([]entity.Record, 0, len(values))
	for _, row := range rowsFromValues(values) {
		if rec, ok := entity.RecordFromRow(row); ok {
			out = append(out, rec)
		}
	}
	return q.Apply(out), nil
}

// rowsFromValues maps each data row onto the normalized header names.
// Short rows leave the missing columns unset.
func rowsFromValues(values [][]interface{}) []map[string]any {
	if len(values) < 2 {
		return nil
	}

	header := make([]string, len(values[0]))
	for i, h := range values[0] {
		header[i] = normalizeHeader(fmt.Sprint(h))
	}

	rows := make([]map[string]any, 0, len(values)-1)
	for _, raw := range values[1:] {
		if len(raw) == 0 {
			continue
		}
		row := make(map[string]any, len(header))
		for i, v := range raw {
			if i >= len(header) || header[i] == "" {
				continue
			}
			row[header[i]] = v
		}
		rows = append(rows, row)
	}
	return rows
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(h), "_")
}

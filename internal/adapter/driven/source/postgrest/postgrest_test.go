package postgrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/diillson/sales-dashboard-go/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, pageSize int) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL + "/", Key: "secret", PageSize: pageSize}, WithRetryMax(0))
	require.NoError(t, err)
	return c
}

func TestNew_RequiresCredentials(t *testing.T) {
	_, err := New(Config{URL: "https://x.supabase.co"})
	assert.Error(t, err)
	_, err = New(Config{Key: "k"})
	assert.Error(t, err)
}

func TestFetchRecords_SendsHeadersAndPages(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/rest/v1/sales_data", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "date.asc,id.asc", r.URL.Query().Get("order"))

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		rows := []map[string]any{}
		if offset == 0 {
			rows = append(rows,
				map[string]any{"date": "2024-01-01", "region": "East", "revenue": 100, "units_sold": 2},
				map[string]any{"date": "2024-01-02", "region": "West", "revenue": "50", "units_sold": 1},
			)
		} else {
			rows = append(rows,
				map[string]any{"sale_date": "2024-01-03", "region": "West", "revenue": 10, "quantity": 3},
				map[string]any{"date": "garbage", "region": "West"},
			)
		}
		if offset > 2 {
			rows = nil
		}
		_ = json.NewEncoder(w).Encode(rows)
	}, 2)

	recs, err := c.FetchRecords(context.Background(), entity.SelectAll(entity.DefaultTable, "date"))
	require.NoError(t, err)

	require.Len(t, recs, 3)
	assert.Equal(t, "East", recs[0].Region)
	assert.Equal(t, 50.0, recs[1].Revenue)
	assert.Equal(t, int64(3), recs[2].Units)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), recs[2].Date)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestFetchRecords_RespectsLimit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "date.desc,id.desc", r.URL.Query().Get("order"))
		_ = json.NewEncoder(w).Encode([]map[string]any{{"date": "2024-05-05", "revenue": 1}})
	}, 100)

	recs, err := c.FetchRecords(context.Background(), entity.Query{Table: "sales", OrderBy: "date", Descending: true, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestOrderClause_AddsUniqueTieBreaker(t *testing.T) {
	c, err := New(Config{URL: "https://x.supabase.co", Key: "k"})
	require.NoError(t, err)

	assert.Equal(t, "date.asc,id.asc", c.orderClause(entity.Query{OrderBy: "date"}))
	assert.Equal(t, "id.desc", c.orderClause(entity.Query{OrderBy: "id", Descending: true}))
	assert.Equal(t, "id.asc", c.orderClause(entity.Query{}))

	c, err = New(Config{URL: "https://x.supabase.co", Key: "k"}, WithTieBreaker(""))
	require.NoError(t, err)
	assert.Equal(t, "date.asc", c.orderClause(entity.Query{OrderBy: "date"}))
	assert.Empty(t, c.orderClause(entity.Query{}))
}

func TestFetchRecords_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"relation does not exist"}`, http.StatusNotFound)
	}, 100)

	_, err := c.FetchRecords(context.Background(), entity.SelectAll("missing", "date"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestInsertRecords_Batches(t *testing.T) {
	var sizes []int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		var rows []map[string]any
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&rows)) || len(rows) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.Equal(t, "2024-02-01", rows[0]["date"])
		sizes = append(sizes, len(rows))
		w.WriteHeader(http.StatusCreated)
	}, 100)

	recs := make([]entity.Record, 5)
	for i := range recs {
		recs[i] = entity.Record{Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Revenue: float64(i)}
	}

	n, err := c.InsertRecords(context.Background(), entity.DefaultTable, recs, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []int{2, 2, 1}, sizes)
}

func TestClearAndCount(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodDelete:
			assert.Equal(t, "neq.0", r.URL.Query().Get("id"))
			w.WriteHeader(http.StatusNoContent)
		case http.MethodHead:
			assert.Equal(t, "count=exact", r.Header.Get("Prefer"))
			w.Header().Set("Content-Range", "0-24/1834")
		}
	}, 100)

	require.NoError(t, c.ClearRecords(context.Background(), entity.DefaultTable))
	n, err := c.CountRecords(context.Background(), entity.DefaultTable)
	require.NoError(t, err)
	assert.Equal(t, 1834, n)
}

func TestParseContentRange(t *testing.T) {
	n, err := parseContentRange("*/0")
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = parseContentRange("0-9/*")
	assert.Error(t, err)
	_, err = parseContentRange("")
	assert.Error(t, err)
}
